package commands

import (
	"errors"
	"fmt"
	"strings"

	"tracking/internal/core/domain/model/identity"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/errs"
	"tracking/internal/pkg/guard"
)

const minPasswordLength = 6

var ErrRegisterUserCommandIsNotConstructed = errors.New(
	"RegisterUserCommand must be created via NewRegisterUserCommand constructor",
)

// RegisterUserCommand creates an account. Store details are kept for vendors only.
type RegisterUserCommand struct {
	email         string
	password      string
	name          string
	role          identity.Role
	storeName     string
	storeLocation kernel.Location
	guard         guard.ConstructorGuard
}

// NewRegisterUserCommand validates the plain inputs. storeLocation may be the
// zero Location.
func NewRegisterUserCommand(
	email, password, name string,
	role identity.Role,
	storeName string,
	storeLocation kernel.Location,
) (RegisterUserCommand, error) {
	if strings.TrimSpace(email) == "" {
		return RegisterUserCommand{}, errs.NewValueIsRequiredError("email")
	}
	if len(password) < minPasswordLength {
		return RegisterUserCommand{}, errs.NewValueIsInvalidErrorWithCause("password",
			fmt.Errorf("must be at least %d characters", minPasswordLength))
	}
	if err := role.Validate(); err != nil {
		return RegisterUserCommand{}, err
	}

	cmd := RegisterUserCommand{
		email:    email,
		password: password,
		name:     name,
		role:     role,
		guard:    guard.NewConstructorGuard(),
	}
	if role == identity.RoleVendor {
		cmd.storeName = storeName
		cmd.storeLocation = storeLocation
	}
	return cmd, nil
}

// Validate fails unless the command was built by its constructor.
func (c RegisterUserCommand) Validate() error {
	return c.guard.Validate(ErrRegisterUserCommandIsNotConstructed)
}

// Email returns the normalized email.
func (c RegisterUserCommand) Email() string { return c.email }

// Password returns the plain-text password.
func (c RegisterUserCommand) Password() string { return c.password }

// Name returns the display name.
func (c RegisterUserCommand) Name() string { return c.name }

// Role returns the requested role.
func (c RegisterUserCommand) Role() identity.Role { return c.role }

// StoreName returns the vendor's store name.
func (c RegisterUserCommand) StoreName() string { return c.storeName }

// StoreLocation returns the vendor's store location.
func (c RegisterUserCommand) StoreLocation() kernel.Location { return c.storeLocation }
