// Package auth contains domain-level types for credentials, users, and sessions.
// It is pure and free of transport/adapter concerns.
package auth

import "time"

// Role represents a user's privilege level as mirrored from the backend.
// Keep string form for easy persistence and cookies.
// Role is authoritative on the backend; it is mirrored here only for
// routing decisions, never for authorization.
type Role string

const (
	RoleUnassigned Role = "unassigned"
	RoleStaff      Role = "staff"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// Valid reports whether the role is one of the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleUnassigned, RoleStaff, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// Assigned reports whether the user has picked a role yet.
// Users with no role are routed to role setup before any dashboard.
func (r Role) Assigned() bool {
	return r != "" && r != RoleUnassigned
}

// LandingPath returns the route a principal with this role lands on.
func (r Role) LandingPath() string {
	switch r {
	case RoleSuperAdmin:
		return "/superadmin"
	case RoleStaff, RoleAdmin:
		return "/dashboard"
	default:
		return "/role-setup"
	}
}

// Credential is the bearer artifact for one backend session.
// Both fields are set together and cleared together, never individually.
type Credential struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the credential's client-side expiry has passed.
// Informational only: requests attach the token regardless and the backend
// remains the final arbiter.
func (c Credential) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// User is the authenticated principal as returned by the backend's
// current-user probe. It is fetched fresh per protected navigation and
// never persisted locally.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Verified bool   `json:"verified"`
	Active   bool   `json:"active"`
}

// Session is the browser-side session record. ID is an opaque identifier
// carried in the session cookie; the credential for the session lives in the
// credential store keyed by this ID.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}
