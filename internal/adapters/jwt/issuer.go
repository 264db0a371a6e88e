package jwt

// Package jwt implements token issuing and verification backed by
// HMAC-signed JWTs.

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainauth "github.com/raborimet/crm-api/internal/domain/auth"
)

// ErrInvalidToken is returned when a token fails signature or lifetime checks.
var ErrInvalidToken = errors.New("invalid token")

type claims struct {
	UserID int64           `json:"uid"`
	Email  string          `json:"email"`
	Role   domainauth.Role `json:"role"`
	jwt.RegisteredClaims
}

// Issuer mints and verifies HS256 tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	issuer string

	// now is swapped in tests
	now func() time.Time
}

// Options configures an Issuer.
type Options struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
}

// NewIssuer creates an Issuer. Secret must be non-empty.
func NewIssuer(opts Options) (*Issuer, error) {
	if len(opts.Secret) == 0 {
		return nil, errors.New("jwt secret is required")
	}
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	return &Issuer{
		secret: opts.Secret,
		ttl:    opts.TTL,
		issuer: opts.Issuer,
		now:    time.Now,
	}, nil
}

// Issue creates a signed token for the user.
func (i *Issuer) Issue(user *domainauth.User) (string, time.Time, error) {
	if user == nil {
		return "", time.Time{}, errors.New("user is required")
	}
	now := i.now()
	expiresAt := now.Add(i.ttl)

	c := claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify validates the token and returns its claims.
func (i *Issuer) Verify(token string) (*domainauth.TokenClaims, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", t.Header["alg"])
			}
			return i.secret, nil
		},
		jwt.WithTimeFunc(i.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if i.issuer != "" && c.Issuer != i.issuer {
		return nil, ErrInvalidToken
	}

	out := &domainauth.TokenClaims{
		UserID: c.UserID,
		Email:  c.Email,
		Role:   c.Role,
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out, nil
}
