package http

import (
	"fmt"

	"tracking/internal/adapters/out/auth"
	"tracking/internal/core/domain/model/identity"
	"tracking/internal/core/ports"
	"tracking/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const principalKey = "principal"

// errUnauthenticated marks a missing or rejected bearer token (401), as
// opposed to an authenticated caller lacking a permission (403).
var errUnauthenticated = errs.NewNotAuthorizedError("authenticate")

func authenticate(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := auth.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return fmt.Errorf("%w: missing bearer token", errUnauthenticated)
			}
			principal, err := verifier.Verify(token)
			if err != nil {
				return fmt.Errorf("%w: %w", errUnauthenticated, err)
			}
			c.Set(principalKey, principal)
			return next(c)
		}
	}
}

func principalOf(c echo.Context) (identity.Principal, error) {
	p, ok := c.Get(principalKey).(identity.Principal)
	if !ok {
		return identity.Principal{}, errUnauthenticated
	}
	return p, nil
}
