package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/raborimet/crm-api/internal/data"
	domainauth "github.com/raborimet/crm-api/internal/domain/auth"
	apperrors "github.com/raborimet/crm-api/internal/errors"
)

// memUserRepo is an in-memory UserRepository for tests.
type memUserRepo struct {
	nextID int64
	users  map[int64]*domainauth.User
	hashes map[int64]string
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		nextID: 1,
		users:  make(map[int64]*domainauth.User),
		hashes: make(map[int64]string),
	}
}

func (m *memUserRepo) Create(_ context.Context, p data.CreateUserParams) (*domainauth.User, error) {
	for _, u := range m.users {
		if u.Email == p.Email {
			return nil, data.ErrUserEmailExists
		}
	}
	u := &domainauth.User{
		ID:        m.nextID,
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Role:      p.Role,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	m.users[u.ID] = u
	m.hashes[u.ID] = p.PasswordHash
	m.nextID++
	return u, nil
}

func (m *memUserRepo) GetByID(_ context.Context, id int64) (*domainauth.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, data.ErrUserNotFound
	}
	return u, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domainauth.User, string, error) {
	for id, u := range m.users {
		if u.Email == email {
			return u, m.hashes[id], nil
		}
	}
	return nil, "", data.ErrUserNotFound
}

func (m *memUserRepo) UpdateProfile(_ context.Context, id int64, p data.UpdateProfileParams) (*domainauth.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, data.ErrUserNotFound
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	return u, nil
}

func (m *memUserRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	if _, ok := m.users[id]; !ok {
		return data.ErrUserNotFound
	}
	m.hashes[id] = hash
	return nil
}

// stubIssuer issues predictable tokens keyed by user ID.
type stubIssuer struct {
	tokens map[string]*domainauth.TokenClaims
}

func newStubIssuer() *stubIssuer {
	return &stubIssuer{tokens: make(map[string]*domainauth.TokenClaims)}
}

func (s *stubIssuer) Issue(user *domainauth.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(time.Hour)
	token := "token-" + user.Email
	s.tokens[token] = &domainauth.TokenClaims{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		ExpiresAt: expiresAt,
	}
	return token, expiresAt, nil
}

func (s *stubIssuer) Verify(token string) (*domainauth.TokenClaims, error) {
	c, ok := s.tokens[token]
	if !ok {
		return nil, apperrors.Unauthorized("invalid token")
	}
	return c, nil
}

// memRevoker is an in-memory TokenRevoker.
type memRevoker struct {
	revoked map[string]bool
}

func newMemRevoker() *memRevoker { return &memRevoker{revoked: make(map[string]bool)} }

func (m *memRevoker) Revoke(_ context.Context, token string, _ time.Time) error {
	m.revoked[token] = true
	return nil
}

func (m *memRevoker) IsRevoked(_ context.Context, token string) (bool, error) {
	return m.revoked[token], nil
}

func newTestAuthService() (*AuthService, *memUserRepo, *memRevoker) {
	repo := newMemUserRepo()
	revoker := newMemRevoker()
	svc := NewAuthService(AuthServiceOptions{
		Users:      repo,
		Issuer:     newStubIssuer(),
		Revoker:    revoker,
		BcryptCost: bcrypt.MinCost,
	})
	return svc, repo, revoker
}

func TestAuthRegisterAndLogin(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterInput{
		Email:     "Jane@Example.com",
		Password:  "correct-horse",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	require.NoError(t, err)
	require.NotNil(t, reg.User)
	assert.Equal(t, "jane@example.com", reg.User.Email)
	assert.Equal(t, domainauth.RoleUser, reg.User.Role)
	// Registration starts a session, so it issues a token like login does.
	assert.NotEmpty(t, reg.Token)
	assert.True(t, reg.ExpiresAt.After(time.Now()))

	res, err := svc.Login(ctx, "jane@example.com", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, reg.User.ID, res.User.ID)
	assert.True(t, res.ExpiresAt.After(time.Now()))
}

func TestAuthLoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "a@b.com", "wrong")
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestAuthLoginUnknownUser(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestAuthLoginDisabledAccount(t *testing.T) {
	svc, repo, _ := newTestAuthService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "password1"})
	require.NoError(t, err)
	repo.users[reg.User.ID].IsActive = false

	_, err = svc.Login(ctx, "a@b.com", "password1")
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestAuthRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "password2"})
	assert.True(t, apperrors.IsConflict(err))
}

func TestAuthRegisterValidation(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "not-an-email", Password: "password1"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "short"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "password1", Role: "superuser"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestAuthUpdateProfileValidation(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "password1"})
	require.NoError(t, err)

	bad := "not-an-email"
	_, err = svc.UpdateProfile(ctx, reg.User.ID, data.UpdateProfileParams{Email: &bad})
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "email", apperrors.GetField(err))

	fresh := " New@Example.com "
	user, err := svc.UpdateProfile(ctx, reg.User.ID, data.UpdateProfileParams{Email: &fresh})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
}

func TestAuthVerifyToken(t *testing.T) {
	svc, repo, _ := newTestAuthService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "password1"})
	require.NoError(t, err)
	res, err := svc.Login(ctx, "a@b.com", "password1")
	require.NoError(t, err)

	verified, err := svc.VerifyToken(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, verified.ID)

	_, err = svc.VerifyToken(ctx, "garbage")
	assert.True(t, apperrors.IsUnauthorized(err))

	// Deactivating the account invalidates outstanding tokens.
	repo.users[reg.User.ID].IsActive = false
	_, err = svc.VerifyToken(ctx, res.Token)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestAuthLogoutRevokesToken(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "password1"})
	require.NoError(t, err)
	res, err := svc.Login(ctx, "a@b.com", "password1")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, res.Token))

	_, err = svc.VerifyToken(ctx, res.Token)
	assert.True(t, apperrors.IsUnauthorized(err))

	// Logging out an unknown token is a no-op, not an error.
	assert.NoError(t, svc.Logout(ctx, "garbage"))
}

func TestAuthChangePassword(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "password1"})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, reg.User.ID, "wrong", "newpassword")
	assert.True(t, apperrors.IsUnauthorized(err))

	require.NoError(t, svc.ChangePassword(ctx, reg.User.ID, "password1", "newpassword"))

	_, err = svc.Login(ctx, "a@b.com", "password1")
	assert.Error(t, err)
	_, err = svc.Login(ctx, "a@b.com", "newpassword")
	assert.NoError(t, err)
}
