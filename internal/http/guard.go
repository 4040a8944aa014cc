package httpx

import (
	"net/http"

	domainauth "github.com/acaralabs/acara-web/internal/domain/auth"
)

// Guard enforces session state on protected routes. Every guarded request
// resolves the user through a fresh backend probe; nothing is trusted from a
// previous request. Outcomes are exhaustive: the request proceeds with the
// user in context, is sent to role setup, is sent to the caller's own landing
// page, or the session is discarded and the caller is sent to login.
type Guard struct {
	Sessions SessionServiceInterface
}

// RequireSession admits any live session, including users who have not yet
// completed role setup. Role-setup endpoints mount behind this.
func (g *Guard) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := g.resolve(w, r)
		if !ok {
			return
		}
		ctx := SetUserInContext(r.Context(), user)
		ctx = domainauth.WithSessionID(ctx, sessionIDFromRequest(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole admits sessions whose role meets the minimum. Users without an
// assigned role are detoured to role setup; assigned users below the minimum
// are detoured to their own landing page rather than shown an error wall.
func (g *Guard) RequireRole(minimum domainauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := g.resolve(w, r)
			if !ok {
				return
			}

			if !user.Role.Assigned() {
				if IsBrowserRequest(r) {
					http.Redirect(w, r, roleSetupPath, http.StatusSeeOther)
					return
				}
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "role_setup_required",
					Err:     errRoleSetupRequired,
				})
				return
			}

			if !hasRequiredRole(user.Role, minimum) {
				if IsBrowserRequest(r) {
					http.Redirect(w, r, user.Role.LandingPath(), http.StatusSeeOther)
					return
				}
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "insufficient_permissions",
					Err:     errInsufficientRole,
				})
				return
			}

			ctx := SetUserInContext(r.Context(), user)
			ctx = domainauth.WithSessionID(ctx, sessionIDFromRequest(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolve authenticates the request. On failure it discards any stray
// credential, clears the cookie, and writes the unauthorized response; the
// caller must return immediately when ok is false.
func (g *Guard) resolve(w http.ResponseWriter, r *http.Request) (domainauth.User, bool) {
	sessionID := sessionIDFromRequest(r)
	if sessionID == "" {
		redirectToLogin(w, r)
		return domainauth.User{}, false
	}

	user, err := g.Sessions.CurrentUser(r.Context(), sessionID)
	if err != nil {
		// The request client already dropped a rejected credential; Discard
		// covers failures that never reached the backend.
		g.Sessions.Discard(r.Context(), sessionID)
		clearSessionCookie(w, r)
		redirectToLogin(w, r)
		return domainauth.User{}, false
	}
	return user, true
}

// sessionIDFromRequest extracts the session ID cookie value, or "".
func sessionIDFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// hasRequiredRole checks if the user's role meets the required role.
// Role hierarchy: staff < admin < superadmin; unassigned meets nothing.
func hasRequiredRole(userRole, requiredRole domainauth.Role) bool {
	roleHierarchy := map[domainauth.Role]int{
		domainauth.RoleStaff:      1,
		domainauth.RoleAdmin:      2,
		domainauth.RoleSuperAdmin: 3,
	}

	userLevel, userExists := roleHierarchy[userRole]
	requiredLevel, requiredExists := roleHierarchy[requiredRole]

	if !userExists || !requiredExists {
		return false
	}

	return userLevel >= requiredLevel
}
