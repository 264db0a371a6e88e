package apiclient

import (
	"context"

	"github.com/raborimet/crm-api/internal/domain/auth"
)

// Policy names the access requirement of a protected area.
type Policy int

const (
	// PolicyAuthenticated requires any valid session.
	PolicyAuthenticated Policy = iota
	// PolicyManagerOrAdmin requires the manager role or above.
	PolicyManagerOrAdmin
	// PolicyAdminOnly requires the admin role.
	PolicyAdminOnly
)

func (p Policy) String() string {
	switch p {
	case PolicyAdminOnly:
		return "admin"
	case PolicyManagerOrAdmin:
		return "manager"
	default:
		return "authenticated"
	}
}

// requiredRole returns the minimum role for the policy, or "" when any
// authenticated user qualifies.
func (p Policy) requiredRole() auth.Role {
	switch p {
	case PolicyAdminOnly:
		return auth.RoleAdmin
	case PolicyManagerOrAdmin:
		return auth.RoleManager
	default:
		return ""
	}
}

// Decision is the outcome of one route access evaluation. A denied decision
// carries the redirect target: the login path when the caller is not
// authenticated, the default landing path when authenticated but lacking the
// required role.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

var (
	allow         = Decision{Allowed: true}
	denyToLogin   = Decision{RedirectTo: LoginTarget}
	denyToLanding = Decision{RedirectTo: LandingTarget}
)

// Guard gates entry into protected areas before any work happens there.
type Guard struct {
	sessions *SessionManager
}

// NewGuard creates a Guard over the given session manager.
func NewGuard(sessions *SessionManager) *Guard {
	return &Guard{sessions: sessions}
}

// Evaluate runs one route access decision:
//
//  1. No token: deny to login, no backend call.
//  2. Token plus cached authenticated state satisfying the policy: allow,
//     no backend call.
//  3. Otherwise: exactly one verification round trip. A valid result with
//     sufficient role allows; a valid result with insufficient role denies
//     to the landing page; an invalid result or transport failure denies to
//     login (the verification itself already cleared the session).
func (g *Guard) Evaluate(ctx context.Context, policy Policy) Decision {
	if _, ok := g.sessions.Token(); !ok {
		return denyToLogin
	}

	required := policy.requiredRole()
	if g.sessions.IsAuthenticated() {
		if required == "" || g.sessions.HasRole(required) {
			return allow
		}
		// Cached state lacks the role; re-verify to pick up a fresher
		// user record before denying.
	}

	user, err := g.sessions.VerifyToken(ctx)
	if err != nil {
		return denyToLogin
	}
	if required != "" && !user.Role.AtLeast(required) {
		return denyToLanding
	}
	return allow
}
