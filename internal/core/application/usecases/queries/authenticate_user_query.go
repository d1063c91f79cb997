package queries

import (
	"errors"
	"strings"
	"time"

	"tracking/internal/core/domain/model/identity"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/errs"
	"tracking/internal/pkg/guard"
)

var ErrAuthenticateUserQueryIsNotConstructed = errors.New(
	"AuthenticateUserQuery must be created via NewAuthenticateUserQuery constructor",
)

// AuthenticateUserQuery exchanges credentials for a bearer token.
type AuthenticateUserQuery struct {
	email    string
	password string
	guard    guard.ConstructorGuard
}

// NewAuthenticateUserQuery requires both credentials.
func NewAuthenticateUserQuery(email, password string) (AuthenticateUserQuery, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return AuthenticateUserQuery{}, errs.NewValueIsRequiredError("email")
	}
	if password == "" {
		return AuthenticateUserQuery{}, errs.NewValueIsRequiredError("password")
	}
	return AuthenticateUserQuery{email: email, password: password, guard: guard.NewConstructorGuard()}, nil
}

// Validate fails unless the query was built by its constructor.
func (q AuthenticateUserQuery) Validate() error {
	return q.guard.Validate(ErrAuthenticateUserQueryIsNotConstructed)
}

// Email returns the normalized email.
func (q AuthenticateUserQuery) Email() string { return q.email }

// Password returns the plain-text password.
func (q AuthenticateUserQuery) Password() string { return q.password }

// AuthenticateUserQueryResponse carries the issued token and the signed-in user.
type AuthenticateUserQueryResponse struct {
	Token     string
	ExpiresAt time.Time
	UserID    kernel.UUID
	Role      identity.Role
	Name      string
}
