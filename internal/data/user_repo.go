// Package data provides PostgreSQL repositories for the CRM system.
package data

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainauth "github.com/raborimet/crm-api/internal/domain/auth"
)

// userRecord is the database shape of a user, including the password hash
// which never leaves this package.
type userRecord struct {
	domainauth.User
	PasswordHash string `db:"password_hash"`
}

// UserRepo provides database operations for users.
type UserRepo struct {
	pool *pgxpool.Pool
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `id, email, first_name, last_name, role, is_active, created_at, updated_at`

// CreateUserParams groups the inputs for creating a user row.
type CreateUserParams struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         domainauth.Role
}

// Create inserts a new user and returns the stored identity.
func (r *UserRepo) Create(ctx context.Context, p CreateUserParams) (*domainauth.User, error) {
	rows, err := r.pool.Query(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name, role, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING `+userColumns,
		strings.ToLower(strings.TrimSpace(p.Email)),
		p.PasswordHash,
		strings.TrimSpace(p.FirstName),
		strings.TrimSpace(p.LastName),
		p.Role,
	)
	if err != nil {
		return nil, mapUserWriteErr(err)
	}
	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domainauth.User])
	if err != nil {
		return nil, mapUserWriteErr(err)
	}
	return &user, nil
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domainauth.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domainauth.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &user, nil
}

// GetByEmail retrieves a user together with the stored password hash.
// Used only by the login flow; everything else works with GetByID.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domainauth.User, string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`, password_hash
		FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", fmt.Errorf("get user by email: %w", err)
	}
	rec, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[userRecord])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", fmt.Errorf("get user by email: %w", err)
	}
	return &rec.User, rec.PasswordHash, nil
}

// UpdateProfileParams groups the updatable profile fields. Nil means unchanged.
type UpdateProfileParams struct {
	Email     *string
	FirstName *string
	LastName  *string
}

// UpdateProfile updates profile fields of a user and returns the fresh record.
func (r *UserRepo) UpdateProfile(ctx context.Context, id int64, p UpdateProfileParams) (*domainauth.User, error) {
	setParts := make([]string, 0, 4)
	args := make([]any, 0, 4)
	nextIdx := func() int { return len(args) + 1 }

	if p.Email != nil {
		setParts = append(setParts, fmt.Sprintf("email = $%d", nextIdx()))
		args = append(args, strings.ToLower(strings.TrimSpace(*p.Email)))
	}
	if p.FirstName != nil {
		setParts = append(setParts, fmt.Sprintf("first_name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*p.FirstName))
	}
	if p.LastName != nil {
		setParts = append(setParts, fmt.Sprintf("last_name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*p.LastName))
	}
	if len(setParts) == 0 {
		return r.GetByID(ctx, id)
	}
	setParts = append(setParts, "updated_at = now()")

	args = append(args, id)
	query := "UPDATE users SET " + strings.Join(setParts, ", ") +
		fmt.Sprintf(" WHERE id = $%d RETURNING ", len(args)) + userColumns

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapUserWriteErr(err)
	}
	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domainauth.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, mapUserWriteErr(err)
	}
	return &user, nil
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`,
		passwordHash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func mapUserWriteErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrUserEmailExists
	}
	return err
}
