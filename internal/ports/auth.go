package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"time"

	domainauth "github.com/raborimet/crm-api/internal/domain/auth"
)

// TokenIssuer mints and verifies bearer tokens for authenticated users.
type TokenIssuer interface {
	// Issue creates a signed token for the user and returns it with its
	// expiration time.
	Issue(user *domainauth.User) (token string, expiresAt time.Time, err error)

	// Verify validates a token's signature and lifetime and returns its claims.
	Verify(token string) (*domainauth.TokenClaims, error)
}

// TokenRevoker tracks tokens invalidated before their natural expiry.
type TokenRevoker interface {
	// Revoke marks the token invalid until it would have expired anyway.
	Revoke(ctx context.Context, token string, expiresAt time.Time) error

	// IsRevoked reports whether the token has been revoked.
	IsRevoked(ctx context.Context, token string) (bool, error)
}
