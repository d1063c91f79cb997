package commands

import (
	"context"
	"time"

	"tracking/internal/core/domain/model/identity"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/user"
	"tracking/internal/core/ports"
)

// RegisterUserCommandHandler hashes the password and stores the account.
// Duplicate emails surface as the repository's ConflictError.
type RegisterUserCommandHandler struct {
	uowFactory UoWFactory
	hasher     ports.PasswordHasher
}

// NewRegisterUserCommandHandler creates the handler. Passwords are hashed with hasher.
func NewRegisterUserCommandHandler(uowFactory UoWFactory, hasher ports.PasswordHasher) RegisterUserCommandHandler {
	return RegisterUserCommandHandler{uowFactory: uowFactory, hasher: hasher}
}

// Handle creates the account. A taken email yields a ConflictError.
func (h RegisterUserCommandHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*user.User, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	hash, err := h.hasher.Hash(cmd.Password())
	if err != nil {
		return nil, err
	}

	u, err := user.NewUser(kernel.NewUUID(), cmd.Email(), cmd.Name(), hash, cmd.Role(), time.Now())
	if err != nil {
		return nil, err
	}
	if cmd.Role() == identity.RoleVendor {
		if err = u.SetStore(cmd.StoreName(), cmd.StoreLocation()); err != nil {
			return nil, err
		}
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.UserRepository().Add(ctx, u); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return u, nil
}
