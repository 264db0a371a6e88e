package apiclient

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raborimet/crm-api/internal/domain/auth"
)

func TestGuardNoTokenDeniesWithoutBackendCall(t *testing.T) {
	api := &stubAuthAPI{}
	m, _, _ := newTestSession(t, api)
	guard := NewGuard(m)

	decision := guard.Evaluate(context.Background(), PolicyAuthenticated)

	assert.False(t, decision.Allowed)
	assert.Equal(t, LoginTarget, decision.RedirectTo)
	assert.Zero(t, api.verifyCalls)
}

func TestGuardCachedSessionAllowsWithoutBackendCall(t *testing.T) {
	api := &stubAuthAPI{loginResp: &AuthResponse{Token: "t", User: testUser(auth.RoleUser)}}
	m, _, _ := newTestSession(t, api)
	_, err := m.Login(context.Background(), Credentials{})
	require.NoError(t, err)
	guard := NewGuard(m)

	decision := guard.Evaluate(context.Background(), PolicyAuthenticated)

	assert.True(t, decision.Allowed)
	assert.Zero(t, api.verifyCalls)
}

func TestGuardColdSessionVerifiesOnce(t *testing.T) {
	api := &stubAuthAPI{verifyResp: &VerifyResponse{Valid: true, User: testUser(auth.RoleUser)}}
	m, store, _ := newTestSession(t, api)
	require.NoError(t, store.Set(StoreKeyToken, "stored-token"))
	guard := NewGuard(m)

	decision := guard.Evaluate(context.Background(), PolicyAuthenticated)

	assert.True(t, decision.Allowed)
	assert.Equal(t, 1, api.verifyCalls)
	assert.True(t, m.IsAuthenticated())
}

func TestGuardAdminPolicyRoleOutcomes(t *testing.T) {
	tests := []struct {
		name     string
		role     auth.Role
		allowed  bool
		redirect string
	}{
		{name: "admin allowed", role: auth.RoleAdmin, allowed: true},
		{name: "manager redirected to landing", role: auth.RoleManager, redirect: LandingTarget},
		{name: "user redirected to landing", role: auth.RoleUser, redirect: LandingTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &stubAuthAPI{verifyResp: &VerifyResponse{Valid: true, User: testUser(tt.role)}}
			m, store, _ := newTestSession(t, api)
			require.NoError(t, store.Set(StoreKeyToken, "stored-token"))
			guard := NewGuard(m)

			decision := guard.Evaluate(context.Background(), PolicyAdminOnly)

			assert.Equal(t, tt.allowed, decision.Allowed)
			assert.Equal(t, tt.redirect, decision.RedirectTo)
			assert.Equal(t, 1, api.verifyCalls)
		})
	}
}

func TestGuardManagerPolicyAcceptsAdmin(t *testing.T) {
	api := &stubAuthAPI{loginResp: &AuthResponse{Token: "t", User: testUser(auth.RoleAdmin)}}
	m, _, _ := newTestSession(t, api)
	_, err := m.Login(context.Background(), Credentials{})
	require.NoError(t, err)
	guard := NewGuard(m)

	decision := guard.Evaluate(context.Background(), PolicyManagerOrAdmin)

	assert.True(t, decision.Allowed)
	assert.Zero(t, api.verifyCalls)
}

func TestGuardVerificationFailureDeniesToLogin(t *testing.T) {
	api := &stubAuthAPI{verifyErr: errors.New("connection refused")}
	m, store, _ := newTestSession(t, api)
	require.NoError(t, store.Set(StoreKeyToken, "stored-token"))
	guard := NewGuard(m)

	decision := guard.Evaluate(context.Background(), PolicyAuthenticated)

	assert.False(t, decision.Allowed)
	assert.Equal(t, LoginTarget, decision.RedirectTo)
	assert.False(t, m.IsAuthenticated())
}

// A cached session whose role is too low re-verifies before denying, so a
// recent promotion is picked up instead of denying on stale data.
func TestGuardCachedInsufficientRoleReverifies(t *testing.T) {
	api := &stubAuthAPI{loginResp: &AuthResponse{Token: "t", User: testUser(auth.RoleUser)}}
	m, _, _ := newTestSession(t, api)
	_, err := m.Login(context.Background(), Credentials{})
	require.NoError(t, err)

	api.verifyResp = &VerifyResponse{Valid: true, User: testUser(auth.RoleAdmin)}
	guard := NewGuard(m)

	decision := guard.Evaluate(context.Background(), PolicyAdminOnly)

	assert.True(t, decision.Allowed)
	assert.Equal(t, 1, api.verifyCalls)
}
