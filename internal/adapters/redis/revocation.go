package redis

// Package redis provides Redis-based adapters for the CRM system.

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList tracks logged-out bearer tokens until their natural expiry.
// Keys carry a TTL matching the token lifetime so the set cleans itself up.
type RevocationList struct {
	client redis.UniversalClient
	prefix string
}

// NewRevocationList creates a Redis-backed revocation list.
func NewRevocationList(client redis.UniversalClient) *RevocationList {
	return &RevocationList{
		client: client,
		prefix: "revoked:",
	}
}

// NewRevocationListWithPrefix creates a revocation list with a custom key prefix.
func NewRevocationListWithPrefix(client redis.UniversalClient, prefix string) *RevocationList {
	return &RevocationList{
		client: client,
		prefix: prefix,
	}
}

// Revoke marks the token invalid until expiresAt. Already-expired tokens are
// ignored since verification rejects them anyway.
func (l *RevocationList) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	if token == "" {
		return errors.New("token cannot be empty")
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	return l.client.Set(ctx, l.key(token), "1", ttl).Err()
}

// IsRevoked reports whether the token has been revoked.
func (l *RevocationList) IsRevoked(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	_, err := l.client.Get(ctx, l.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis get: %w", err)
	}
	return true, nil
}

// key hashes the token so raw credentials never land in Redis.
func (l *RevocationList) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return l.prefix + hex.EncodeToString(sum[:])
}
