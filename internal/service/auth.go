// Package service contains the application services that orchestrate
// repositories, adapters, and domain rules.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/raborimet/crm-api/internal/data"
	domainauth "github.com/raborimet/crm-api/internal/domain/auth"
	apperrors "github.com/raborimet/crm-api/internal/errors"
	"github.com/raborimet/crm-api/internal/ports"
)

// UserRepository is the persistence surface AuthService needs.
type UserRepository interface {
	Create(ctx context.Context, p data.CreateUserParams) (*domainauth.User, error)
	GetByID(ctx context.Context, id int64) (*domainauth.User, error)
	GetByEmail(ctx context.Context, email string) (*domainauth.User, string, error)
	UpdateProfile(ctx context.Context, id int64, p data.UpdateProfileParams) (*domainauth.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Users      UserRepository
	Issuer     ports.TokenIssuer
	Revoker    ports.TokenRevoker
	BcryptCost int
}

// AuthService handles registration, login, token verification, and profile
// management.
type AuthService struct {
	users      UserRepository
	issuer     ports.TokenIssuer
	revoker    ports.TokenRevoker
	bcryptCost int
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	cost := opts.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:      opts.Users,
		issuer:     opts.Issuer,
		revoker:    opts.Revoker,
		bcryptCost: cost,
	}
}

// RegisterInput carries inputs for creating a new account.
type RegisterInput struct {
	Email     string          `json:"email"`
	Password  string          `json:"password"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Role      domainauth.Role `json:"role,omitempty"`
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	User      *domainauth.User `json:"user"`
}

// Register creates a new user account and issues a bearer token, so a fresh
// registration starts a session the same way a login does. New accounts
// default to the user role; elevated roles are assigned by an admin
// afterwards.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.ValidationField("email", "a valid email is required")
	}
	if len(in.Password) < 8 {
		return nil, apperrors.ValidationField("password", "password must be at least 8 characters")
	}
	role := in.Role
	if role == "" {
		role = domainauth.RoleUser
	}
	if !role.Valid() {
		return nil, apperrors.ValidationField("role", "unknown role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "hash password")
	}

	user, err := s.users.Create(ctx, data.CreateUserParams{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, data.ErrUserEmailExists) {
			return nil, apperrors.Conflict("an account with this email already exists")
		}
		return nil, apperrors.MapDBError(err)
	}

	token, expiresAt, err := s.issuer.Issue(user)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "issue token")
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Login verifies credentials and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, hash, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return nil, apperrors.Unauthorized("invalid email or password")
		}
		return nil, apperrors.MapDBError(err)
	}
	if !user.IsActive {
		return nil, apperrors.Unauthorized("account is disabled")
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, apperrors.Unauthorized("invalid email or password")
	}

	token, expiresAt, err := s.issuer.Issue(user)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "issue token")
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// VerifyToken checks signature, revocation, and that the account is still
// active, and returns the current user record.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*domainauth.User, error) {
	claims, err := s.issuer.Verify(token)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}

	revoked, err := s.revoker.IsRevoked(ctx, token)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "check revocation")
	}
	if revoked {
		return nil, apperrors.Unauthorized("token has been revoked")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return nil, apperrors.Unauthorized("account no longer exists")
		}
		return nil, apperrors.MapDBError(err)
	}
	if !user.IsActive {
		return nil, apperrors.Unauthorized("account is disabled")
	}
	return user, nil
}

// Logout revokes the token until its natural expiry. Unknown or already
// expired tokens are a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.issuer.Verify(token)
	if err != nil {
		return nil
	}
	if revokeErr := s.revoker.Revoke(ctx, token, claims.ExpiresAt); revokeErr != nil {
		return apperrors.Wrap(revokeErr, apperrors.ErrCodeInternal, "revoke token")
	}
	return nil
}

// Profile returns the user's current record.
func (s *AuthService) Profile(ctx context.Context, userID int64) (*domainauth.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.MapDBError(err)
	}
	return user, nil
}

// UpdateProfile updates the user's name and email.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, p data.UpdateProfileParams) (*domainauth.User, error) {
	if p.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*p.Email))
		if email == "" || !strings.Contains(email, "@") {
			return nil, apperrors.ValidationField("email", "a valid email is required")
		}
		p.Email = &email
	}
	user, err := s.users.UpdateProfile(ctx, userID, p)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrUserNotFound):
			return nil, apperrors.NotFound("user not found")
		case errors.Is(err, data.ErrUserEmailExists):
			return nil, apperrors.Conflict("an account with this email already exists")
		}
		return nil, apperrors.MapDBError(err)
	}
	return user, nil
}

// ChangePassword verifies the current password before setting a new one.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	if len(next) < 8 {
		return apperrors.ValidationField("new_password", "password must be at least 8 characters")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return apperrors.NotFound("user not found")
		}
		return apperrors.MapDBError(err)
	}

	_, hash, err := s.users.GetByEmail(ctx, user.Email)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(current)) != nil {
		return apperrors.Unauthorized("current password is incorrect")
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(next), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if updateErr := s.users.UpdatePassword(ctx, userID, string(newHash)); updateErr != nil {
		return apperrors.MapDBError(updateErr)
	}
	return nil
}
