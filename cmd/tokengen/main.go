// Command tokengen prints a bearer token for an existing user, signed with
// the JWT_SECRET the service is configured with. It is meant for local
// testing of the REST and WebSocket endpoints.
//
//	tokengen --user-id 550e8400-e29b-41d4-a716-446655440000 --role delivery
package main

import (
	"fmt"
	"os"
	"time"

	"tracking/cmd"
	"tracking/internal/adapters/out/auth"
	"tracking/internal/core/domain/model/identity"
	"tracking/internal/core/domain/model/kernel"

	"github.com/spf13/pflag"
)

func main() {
	userID := pflag.String("user-id", "", "id of the user the token is issued for")
	role := pflag.String("role", "", "customer, vendor or delivery")
	ttl := pflag.Duration("ttl", 0, "token lifetime, defaults to JWT_TTL")
	envFile := pflag.String("env-file", ".env", "optional dotenv file")
	pflag.Parse()

	if err := run(*envFile, *userID, *role, *ttl); err != nil {
		fmt.Fprintln(os.Stderr, "tokengen:", err)
		os.Exit(1)
	}
}

func run(envFile, rawID, rawRole string, ttl time.Duration) error {
	config, err := cmd.LoadConfig(envFile)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = config.JWTTTL
	}

	id, err := kernel.UUIDFromString(rawID)
	if err != nil {
		return fmt.Errorf("--user-id: %w", err)
	}
	role, err := identity.ParseRole(rawRole)
	if err != nil {
		return fmt.Errorf("--role: %w", err)
	}
	principal, err := identity.NewPrincipal(id, role)
	if err != nil {
		return err
	}

	tokens, err := auth.NewTokenManager(config.JWTSecret, ttl)
	if err != nil {
		return err
	}
	token, expiresAt, err := tokens.Issue(principal)
	if err != nil {
		return err
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires at %s\n", expiresAt.Format(time.RFC3339))
	return nil
}
