package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raborimet/crm-api/internal/domain/auth"
)

type stubAuthAPI struct {
	loginResp  *AuthResponse
	loginErr   error
	verifyResp *VerifyResponse
	verifyErr  error

	loginCalls  int
	verifyCalls int
	verifyHook  func()
}

func (s *stubAuthAPI) Login(context.Context, Credentials) (*AuthResponse, error) {
	s.loginCalls++
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return s.loginResp, nil
}

func (s *stubAuthAPI) Register(context.Context, RegisterRequest) (*AuthResponse, error) {
	return s.loginResp, s.loginErr
}

func (s *stubAuthAPI) Verify(context.Context) (*VerifyResponse, error) {
	s.verifyCalls++
	if s.verifyHook != nil {
		s.verifyHook()
	}
	if s.verifyErr != nil {
		return nil, s.verifyErr
	}
	return s.verifyResp, nil
}

func testUser(role auth.Role) *User {
	return &User{
		ID:        7,
		Email:     "pat@example.com",
		FirstName: "Pat",
		LastName:  "Doe",
		Role:      role,
		IsActive:  true,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

type navRecorder struct {
	targets []string
}

func (n *navRecorder) navigate(target string) { n.targets = append(n.targets, target) }

func newTestSession(t *testing.T, api AuthAPI) (*SessionManager, *MemoryStore, *navRecorder) {
	t.Helper()

	store := NewMemoryStore()
	nav := &navRecorder{}
	m, err := NewSessionManager(SessionManagerOptions{Store: store, Navigate: nav.navigate})
	require.NoError(t, err)
	if api != nil {
		m.bindAPI(api)
	}
	return m, store, nav
}

func TestInitializeRestoresPersistedSession(t *testing.T) {
	m, store, _ := newTestSession(t, nil)
	user := testUser(auth.RoleManager)
	raw, err := json.Marshal(user)
	require.NoError(t, err)
	require.NoError(t, store.Set(StoreKeyToken, "stored-token"))
	require.NoError(t, store.Set(StoreKeyUser, string(raw)))

	require.NoError(t, m.Initialize())

	assert.True(t, m.IsAuthenticated())
	got, ok := m.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "pat@example.com", got.Email)
	token, ok := m.Token()
	require.True(t, ok)
	assert.Equal(t, "stored-token", token)
}

func TestInitializeCorruptUserClearsEverything(t *testing.T) {
	m, store, nav := newTestSession(t, nil)
	require.NoError(t, store.Set(StoreKeyToken, "stored-token"))
	require.NoError(t, store.Set(StoreKeyUser, "{not json"))

	require.NoError(t, m.Initialize())

	assert.False(t, m.IsAuthenticated())
	_, ok := m.Token()
	assert.False(t, ok)
	_, haveUser, err := store.Get(StoreKeyUser)
	require.NoError(t, err)
	assert.False(t, haveUser)
	assert.Equal(t, []string{LoginTarget}, nav.targets)
}

func TestInitializePartialRecordClears(t *testing.T) {
	m, store, _ := newTestSession(t, nil)
	require.NoError(t, store.Set(StoreKeyToken, "orphan-token"))

	require.NoError(t, m.Initialize())

	assert.False(t, m.IsAuthenticated())
	_, haveToken, err := store.Get(StoreKeyToken)
	require.NoError(t, err)
	assert.False(t, haveToken)
}

func TestLoginPersistsSession(t *testing.T) {
	api := &stubAuthAPI{loginResp: &AuthResponse{Token: "fresh-token", User: testUser(auth.RoleUser)}}
	m, store, _ := newTestSession(t, api)

	resp, err := m.Login(context.Background(), Credentials{Email: "pat@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", resp.Token)
	assert.True(t, m.IsAuthenticated())

	token, have, err := store.Get(StoreKeyToken)
	require.NoError(t, err)
	require.True(t, have)
	assert.Equal(t, "fresh-token", token)
	_, have, err = store.Get(StoreKeyUser)
	require.NoError(t, err)
	assert.True(t, have)
}

func TestLoginFailurePropagatesUnchanged(t *testing.T) {
	wantErr := errors.New("invalid email or password")
	api := &stubAuthAPI{loginErr: wantErr}
	m, store, _ := newTestSession(t, api)

	_, err := m.Login(context.Background(), Credentials{Email: "pat@example.com", Password: "nope"})
	require.ErrorIs(t, err, wantErr)
	assert.False(t, m.IsAuthenticated())
	_, have, err := store.Get(StoreKeyToken)
	require.NoError(t, err)
	assert.False(t, have)
}

func TestLogoutIsIdempotent(t *testing.T) {
	api := &stubAuthAPI{loginResp: &AuthResponse{Token: "fresh-token", User: testUser(auth.RoleUser)}}
	m, store, nav := newTestSession(t, api)
	_, err := m.Login(context.Background(), Credentials{})
	require.NoError(t, err)

	m.Logout()
	m.Logout()

	assert.False(t, m.IsAuthenticated())
	_, haveToken, err := store.Get(StoreKeyToken)
	require.NoError(t, err)
	assert.False(t, haveToken)
	_, haveUser, err := store.Get(StoreKeyUser)
	require.NoError(t, err)
	assert.False(t, haveUser)
	assert.Equal(t, []string{LoginTarget, LoginTarget}, nav.targets)
}

func TestVerifyTokenRefreshesUser(t *testing.T) {
	api := &stubAuthAPI{verifyResp: &VerifyResponse{Valid: true, User: testUser(auth.RoleAdmin)}}
	m, store, _ := newTestSession(t, api)
	require.NoError(t, store.Set(StoreKeyToken, "stored-token"))

	user, err := m.VerifyToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, user.Role)
	assert.True(t, m.IsAuthenticated())

	raw, have, err := store.Get(StoreKeyUser)
	require.NoError(t, err)
	require.True(t, have)
	assert.Contains(t, raw, "pat@example.com")
}

func TestVerifyTokenInvalidForcesLogout(t *testing.T) {
	api := &stubAuthAPI{verifyResp: &VerifyResponse{Valid: false}}
	m, store, nav := newTestSession(t, api)
	require.NoError(t, store.Set(StoreKeyToken, "stale-token"))

	_, err := m.VerifyToken(context.Background())
	require.ErrorIs(t, err, ErrTokenInvalid)
	assert.False(t, m.IsAuthenticated())
	_, have, err := store.Get(StoreKeyToken)
	require.NoError(t, err)
	assert.False(t, have)
	assert.Equal(t, []string{LoginTarget}, nav.targets)
}

func TestVerifyTokenTransportFailureForcesLogout(t *testing.T) {
	wantErr := errors.New("connection refused")
	api := &stubAuthAPI{verifyErr: wantErr}
	m, store, _ := newTestSession(t, api)
	require.NoError(t, store.Set(StoreKeyToken, "stored-token"))

	_, err := m.VerifyToken(context.Background())
	require.ErrorIs(t, err, wantErr)
	_, have, err := store.Get(StoreKeyToken)
	require.NoError(t, err)
	assert.False(t, have)
}

// A verification answer that lands after a newer login must not disturb the
// newer session.
func TestVerifyTokenStaleResultDiscarded(t *testing.T) {
	api := &stubAuthAPI{verifyResp: &VerifyResponse{Valid: false}}
	m, store, _ := newTestSession(t, api)
	require.NoError(t, store.Set(StoreKeyToken, "old-token"))

	api.loginResp = &AuthResponse{Token: "newer-token", User: testUser(auth.RoleManager)}
	api.verifyHook = func() {
		_, err := m.Login(context.Background(), Credentials{})
		require.NoError(t, err)
	}

	_, err := m.VerifyToken(context.Background())
	require.ErrorIs(t, err, ErrSessionSuperseded)

	assert.True(t, m.IsAuthenticated())
	token, have, err := store.Get(StoreKeyToken)
	require.NoError(t, err)
	require.True(t, have)
	assert.Equal(t, "newer-token", token)
}

func TestRolePredicates(t *testing.T) {
	api := &stubAuthAPI{loginResp: &AuthResponse{Token: "t", User: testUser(auth.RoleManager)}}
	m, _, _ := newTestSession(t, api)
	_, err := m.Login(context.Background(), Credentials{})
	require.NoError(t, err)

	assert.True(t, m.IsManager())
	assert.False(t, m.IsAdmin())
	assert.True(t, m.HasRole(auth.RoleUser))
	assert.True(t, m.HasRole(auth.RoleManager))
	assert.False(t, m.HasRole(auth.RoleAdmin))
	assert.False(t, m.HasRole(auth.Role("superuser")))
}
