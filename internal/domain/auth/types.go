package auth

// Package auth contains domain-level types for authentication and identity.
// It is pure and free of framework/adapter concerns.

import "time"

// Role represents an application's authorization role.
// Keep string form for easy persistence and wire transfer.
// Valid values are defined as constants below.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// Level returns the rank of the role in the hierarchy user < manager < admin.
// Unknown roles rank below user and never satisfy a requirement.
func (r Role) Level() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleManager:
		return 2
	case RoleUser:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether r satisfies the required role. This is the single
// place role comparison happens; guards and session predicates delegate here.
func (r Role) AtLeast(required Role) bool {
	if r.Level() == 0 || required.Level() == 0 {
		return false
	}
	return r.Level() >= required.Level()
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool { return r.Level() > 0 }

// User is the authenticated principal as stored and exchanged on the wire.
type User struct {
	ID        int64     `json:"id"         db:"id"`
	Email     string    `json:"email"      db:"email"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name"  db:"last_name"`
	Role      Role      `json:"role"       db:"role"`
	IsActive  bool      `json:"is_active"  db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool { return u.Role.AtLeast(RoleAdmin) }

// IsManager reports whether the user holds the manager role or above.
func (u User) IsManager() bool { return u.Role.AtLeast(RoleManager) }

// TokenClaims is the identity carried inside a verified bearer token.
type TokenClaims struct {
	UserID    int64
	Email     string
	Role      Role
	ExpiresAt time.Time
}
