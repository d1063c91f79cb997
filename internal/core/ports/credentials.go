package ports

import (
	"time"

	"tracking/internal/core/domain/model/identity"
)

// PasswordHasher turns plain passwords into stored hashes and checks them.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns nil when password matches hash.
	Compare(hash, password string) error
}

// TokenIssuer signs bearer tokens for an authenticated principal.
type TokenIssuer interface {
	Issue(p identity.Principal) (token string, expiresAt time.Time, err error)
}

// TokenVerifier resolves a bearer token back to the principal it was issued for.
type TokenVerifier interface {
	Verify(token string) (identity.Principal, error)
}
