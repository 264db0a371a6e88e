package httpx

import (
	"context"

	domainauth "github.com/raborimet/crm-api/internal/domain/auth"
)

// userKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type userKey struct{}

// tokenKey carries the raw bearer token so logout can revoke it.
type tokenKey struct{}

// SetUserInContext returns a child context that carries the authenticated user.
// If user is nil, the original ctx is returned unchanged.
func SetUserInContext(ctx context.Context, user *domainauth.User) context.Context {
	if user == nil {
		return ctx
	}
	return context.WithValue(ctx, userKey{}, user)
}

// GetUserFromContext returns the authenticated user from context and a boolean
// indicating presence.
func GetUserFromContext(ctx context.Context) (*domainauth.User, bool) {
	if user, ok := ctx.Value(userKey{}).(*domainauth.User); ok && user != nil {
		return user, true
	}
	return nil, false
}

// SetTokenInContext stores the raw bearer token for the request.
func SetTokenInContext(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

// GetTokenFromContext returns the raw bearer token for the request, if any.
func GetTokenFromContext(ctx context.Context) (string, bool) {
	if token, ok := ctx.Value(tokenKey{}).(string); ok && token != "" {
		return token, true
	}
	return "", false
}
