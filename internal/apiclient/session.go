package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/raborimet/crm-api/internal/domain/auth"
)

// Default navigation targets. Denied navigations go to the login target;
// authenticated but underprivileged ones go to the landing target.
const (
	LoginTarget   = "/auth/login"
	LandingTarget = "/app/dashboard"
)

var (
	// ErrTokenInvalid is returned when the server rejects the current token.
	ErrTokenInvalid = errors.New("apiclient: token rejected by server")
	// ErrSessionSuperseded is returned when a verification result arrives
	// after the session it was issued for has been replaced or cleared.
	ErrSessionSuperseded = errors.New("apiclient: verification superseded by newer session")
)

// AuthAPI is the slice of the backend the session manager drives.
type AuthAPI interface {
	Login(ctx context.Context, creds Credentials) (*AuthResponse, error)
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Verify(ctx context.Context) (*VerifyResponse, error)
}

// SessionManagerOptions groups dependencies for SessionManager.
type SessionManagerOptions struct {
	Store    CredentialStore
	Logger   *slog.Logger
	Navigate func(target string)
}

// SessionManager is the single owner of "who is logged in and with what
// credential". State lives in memory and in a CredentialStore so a process
// restart does not force re-login. All other components read it through
// accessors and never mutate it directly.
type SessionManager struct {
	store    CredentialStore
	logger   *slog.Logger
	navigate func(string)

	mu            sync.Mutex
	api           AuthAPI
	generation    uint64
	token         string
	user          *User
	authenticated bool
}

// NewSessionManager constructs a SessionManager. The backend API is attached
// by the Client during its own construction.
func NewSessionManager(opts SessionManagerOptions) (*SessionManager, error) {
	if opts.Store == nil {
		return nil, errors.New("credential store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	navigate := opts.Navigate
	if navigate == nil {
		navigate = func(string) {}
	}
	return &SessionManager{store: opts.Store, logger: logger, navigate: navigate}, nil
}

func (m *SessionManager) bindAPI(api AuthAPI) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.api = api
}

// Initialize loads the persisted token and user record. When both are
// present and the user record parses, the session becomes authenticated
// without a backend call. A corrupt or partial record clears all persisted
// state, equivalent to logout.
func (m *SessionManager) Initialize() error {
	token, haveToken, err := m.store.Get(StoreKeyToken)
	if err != nil {
		return err
	}
	raw, haveUser, err := m.store.Get(StoreKeyUser)
	if err != nil {
		return err
	}

	if !haveToken || !haveUser {
		if haveToken || haveUser {
			// A half-written record is as good as no record.
			m.clear()
		}
		return nil
	}

	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		m.logger.Warn("persisted user record is corrupt, clearing session", "error", err)
		m.Logout()
		return nil
	}

	m.mu.Lock()
	m.token = token
	m.user = &user
	m.authenticated = true
	m.mu.Unlock()
	m.logger.Debug("session restored from storage", "email", user.Email)
	return nil
}

// Login authenticates against the backend and persists the returned
// credential. Backend failures propagate to the caller unchanged.
func (m *SessionManager) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	resp, err := m.apiRef().Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	if err := m.setAuthData(resp.Token, resp.User); err != nil {
		return nil, err
	}
	return resp, nil
}

// Register creates an account and, like the original login flow, starts a
// session with the returned credential.
func (m *SessionManager) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	resp, err := m.apiRef().Register(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := m.setAuthData(resp.Token, resp.User); err != nil {
		return nil, err
	}
	return resp, nil
}

// Logout clears persisted and in-memory session state and navigates to the
// login target. Calling it when already logged out is a no-op apart from the
// navigation.
func (m *SessionManager) Logout() {
	m.clear()
	m.navigate(LoginTarget)
}

// VerifyToken asks the backend whether the current credential is still
// valid. A valid response refreshes the stored user record; any rejection or
// transport failure forces a full logout and propagates. A result that
// arrives after the session has changed hands is discarded.
func (m *SessionManager) VerifyToken(ctx context.Context) (*User, error) {
	m.mu.Lock()
	gen := m.generation
	m.mu.Unlock()

	resp, err := m.apiRef().Verify(ctx)

	m.mu.Lock()
	stale := m.generation != gen
	m.mu.Unlock()
	if stale {
		if err != nil {
			return nil, err
		}
		return nil, ErrSessionSuperseded
	}

	if err != nil {
		m.Logout()
		return nil, err
	}
	if !resp.Valid || resp.User == nil {
		m.Logout()
		return nil, ErrTokenInvalid
	}

	if err := m.ApplyUser(resp.User); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.authenticated = true
	m.mu.Unlock()
	return resp.User, nil
}

// ApplyUser persists and caches a freshly fetched user record, as after a
// profile fetch or update.
func (m *SessionManager) ApplyUser(user *User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := m.store.Set(StoreKeyUser, string(raw)); err != nil {
		return err
	}
	m.mu.Lock()
	m.user = user
	m.mu.Unlock()
	return nil
}

// Token returns the persisted bearer credential, if any.
func (m *SessionManager) Token() (string, bool) {
	token, ok, err := m.store.Get(StoreKeyToken)
	if err != nil || token == "" {
		return "", false
	}
	return token, ok
}

// CurrentUser returns the in-memory user record, if any.
func (m *SessionManager) CurrentUser() (*User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil, false
	}
	u := *m.user
	return &u, true
}

// IsAuthenticated reports the cached authentication flag. True implies a
// user record is present; a present token alone does not imply true.
func (m *SessionManager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authenticated
}

// HasRole reports whether the current user's role satisfies the required
// role under the hierarchy admin > manager > user.
func (m *SessionManager) HasRole(required auth.Role) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user != nil && m.user.Role.AtLeast(required)
}

// IsAdmin reports whether the current user is an admin.
func (m *SessionManager) IsAdmin() bool { return m.HasRole(auth.RoleAdmin) }

// IsManager reports whether the current user is a manager or admin.
func (m *SessionManager) IsManager() bool { return m.HasRole(auth.RoleManager) }

func (m *SessionManager) apiRef() AuthAPI {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.api == nil {
		panic("apiclient: session manager used before a client was attached")
	}
	return m.api
}

func (m *SessionManager) setAuthData(token string, user *User) error {
	// Authenticated state always carries both halves; a response missing
	// either must not start a session.
	if token == "" || user == nil {
		return errors.New("apiclient: auth response missing token or user")
	}
	if err := m.store.Set(StoreKeyToken, token); err != nil {
		return err
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := m.store.Set(StoreKeyUser, string(raw)); err != nil {
		return err
	}

	m.mu.Lock()
	m.token = token
	m.user = user
	m.authenticated = true
	m.generation++
	m.mu.Unlock()
	return nil
}

func (m *SessionManager) clear() {
	if err := m.store.Delete(StoreKeyToken); err != nil {
		m.logger.Warn("failed to remove persisted token", "error", err)
	}
	if err := m.store.Delete(StoreKeyUser); err != nil {
		m.logger.Warn("failed to remove persisted user", "error", err)
	}

	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.authenticated = false
	m.generation++
	m.mu.Unlock()
}
