// Package auth implements the credential ports: HS256 bearer tokens and bcrypt
// password hashes.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tracking/internal/core/domain/model/identity"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/ports"
	"tracking/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
)

var ErrEmptySecret = errors.New("jwt secret is empty")

var (
	_ ports.TokenIssuer   = (*TokenManager)(nil)
	_ ports.TokenVerifier = (*TokenManager)(nil)
)

// Claims is the token payload: the subject is the user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 bearer tokens. It implements ports.TokenIssuer and ports.TokenVerifier.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager requires a non-empty secret and a positive ttl.
func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	s := strings.TrimSpace(secret)
	if s == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("ttl", ttl, "1ns", "unbounded")
	}
	return &TokenManager{secret: []byte(s), ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for p that expires after the configured TTL.
func (m *TokenManager) Issue(p identity.Principal) (string, time.Time, error) {
	if err := p.Validate(); err != nil {
		return "", time.Time{}, err
	}

	now := m.now().UTC()
	expiresAt := now.Add(m.ttl)
	claims := &Claims{
		Role: p.Role().String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks signature, algorithm and expiry and returns the principal the
// token was issued for. Every failure is a NotAuthorizedError.
func (m *TokenManager) Verify(token string) (identity.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return identity.Principal{}, errs.NewNotAuthorizedError("authenticate without a token")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)

	claims := &Claims{}
	if _, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}); err != nil {
		return identity.Principal{}, errs.NewNotAuthorizedErrorWithCause("authenticate", err)
	}

	userID, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return identity.Principal{}, errs.NewNotAuthorizedErrorWithCause("authenticate", err)
	}
	role, err := identity.ParseRole(claims.Role)
	if err != nil {
		return identity.Principal{}, errs.NewNotAuthorizedErrorWithCause("authenticate", err)
	}
	principal, err := identity.NewPrincipal(userID, role)
	if err != nil {
		return identity.Principal{}, errs.NewNotAuthorizedErrorWithCause("authenticate", err)
	}
	return principal, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
