package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/raborimet/crm-api/internal/domain/auth"
)

func testUser() *domainauth.User {
	return &domainauth.User{
		ID:    42,
		Email: "jane@example.com",
		Role:  domainauth.RoleManager,
	}
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	iss, err := NewIssuer(Options{Secret: []byte("test-secret"), TTL: time.Hour, Issuer: "crm-test"})
	require.NoError(t, err)

	token, expiresAt, err := iss.Issue(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	c, err := iss.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), c.UserID)
	assert.Equal(t, "jane@example.com", c.Email)
	assert.Equal(t, domainauth.RoleManager, c.Role)
	assert.WithinDuration(t, expiresAt, c.ExpiresAt, time.Second)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	iss, err := NewIssuer(Options{Secret: []byte("test-secret")})
	require.NoError(t, err)

	token, _, err := iss.Issue(testUser())
	require.NoError(t, err)

	_, err = iss.Verify(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issA, err := NewIssuer(Options{Secret: []byte("secret-a")})
	require.NoError(t, err)
	issB, err := NewIssuer(Options{Secret: []byte("secret-b")})
	require.NoError(t, err)

	token, _, err := issA.Issue(testUser())
	require.NoError(t, err)

	_, err = issB.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	iss, err := NewIssuer(Options{Secret: []byte("test-secret"), TTL: time.Minute})
	require.NoError(t, err)

	token, _, err := iss.Issue(testUser())
	require.NoError(t, err)

	iss.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = iss.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	issA, err := NewIssuer(Options{Secret: []byte("shared"), Issuer: "a"})
	require.NoError(t, err)
	issB, err := NewIssuer(Options{Secret: []byte("shared"), Issuer: "b"})
	require.NoError(t, err)

	token, _, err := issA.Issue(testUser())
	require.NoError(t, err)

	_, err = issB.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewIssuerRequiresSecret(t *testing.T) {
	_, err := NewIssuer(Options{})
	assert.Error(t, err)
}
