package queries

import (
	"context"
	"errors"

	"tracking/internal/core/ports"
	"tracking/internal/pkg/errs"
)

// AuthenticateUserQueryHandler checks credentials and issues a token.
type AuthenticateUserQueryHandler struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	issuer ports.TokenIssuer
}

// NewAuthenticateUserQueryHandler creates the handler.
func NewAuthenticateUserQueryHandler(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	issuer ports.TokenIssuer,
) AuthenticateUserQueryHandler {
	return AuthenticateUserQueryHandler{users: users, hasher: hasher, issuer: issuer}
}

// Handle fails with the same NotAuthorizedError for an unknown email and for
// a wrong password.
func (h AuthenticateUserQueryHandler) Handle(
	ctx context.Context,
	query AuthenticateUserQuery,
) (AuthenticateUserQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return AuthenticateUserQueryResponse{}, err
	}

	u, err := h.users.GetByEmail(ctx, query.Email())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return AuthenticateUserQueryResponse{}, errs.NewNotAuthorizedError("invalid credentials")
	}
	if err != nil {
		return AuthenticateUserQueryResponse{}, err
	}

	if err = h.hasher.Compare(u.PasswordHash(), query.Password()); err != nil {
		return AuthenticateUserQueryResponse{}, errs.NewNotAuthorizedErrorWithCause("invalid credentials", err)
	}

	principal, err := u.Principal()
	if err != nil {
		return AuthenticateUserQueryResponse{}, err
	}

	token, expiresAt, err := h.issuer.Issue(principal)
	if err != nil {
		return AuthenticateUserQueryResponse{}, err
	}

	return AuthenticateUserQueryResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		UserID:    u.ID(),
		Role:      u.Role(),
		Name:      u.Name(),
	}, nil
}
