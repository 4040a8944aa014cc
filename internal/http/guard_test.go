package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/acaralabs/acara-web/internal/domain/auth"
)

func serveGuarded(guard *Guard, minimum domainauth.Role, r *http.Request) (*httptest.ResponseRecorder, bool) {
	called := false
	handler := guard.RequireRole(minimum)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	return w, called
}

func TestGuard_RequireRole_Authorized(t *testing.T) {
	sessions := sessionsFor(testUser(domainauth.RoleAdmin))
	guard := &Guard{Sessions: sessions}

	var ctxUser domainauth.User
	var ctxSessionID string
	handler := guard.RequireRole(domainauth.RoleStaff)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxUser, _ = UserFromContext(r.Context())
		ctxSessionID, _ = domainauth.SessionIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, withSessionCookie(browserRequest(http.MethodGet, "/dashboard"), "sess-1"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", ctxUser.ID)
	assert.Equal(t, "sess-1", ctxSessionID, "session ID must flow to backend calls")
}

func TestGuard_RequireRole_NoCookie(t *testing.T) {
	guard := &Guard{Sessions: &fakeSessions{}}

	w, called := serveGuarded(guard, domainauth.RoleStaff, browserRequest(http.MethodGet, "/dashboard"))

	assert.False(t, called)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/auth/login")
	assert.Contains(t, w.Header().Get("Location"), "redirect_uri=%2Fdashboard")
}

func TestGuard_RequireRole_NoCookieAPI(t *testing.T) {
	guard := &Guard{Sessions: &fakeSessions{}}

	w, called := serveGuarded(guard, domainauth.RoleStaff, apiRequest(http.MethodGet, "/dashboard/events"))

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGuard_RequireRole_DeadSessionDiscardsAndRedirects(t *testing.T) {
	sessions := &fakeSessions{
		CurrentUserFunc: func(context.Context, string) (domainauth.User, error) {
			return domainauth.User{}, errors.New("credential rejected")
		},
	}
	guard := &Guard{Sessions: sessions}

	w, called := serveGuarded(guard, domainauth.RoleStaff,
		withSessionCookie(browserRequest(http.MethodGet, "/dashboard"), "sess-dead"))

	assert.False(t, called)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/auth/login")
	assert.Equal(t, []string{"sess-dead"}, sessions.discarded, "stray credential must be discarded")

	// The cookie is cleared alongside.
	var cleared bool
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "session cookie should be expired")
}

func TestGuard_RequireRole_UnassignedGoesToRoleSetup(t *testing.T) {
	guard := &Guard{Sessions: sessionsFor(testUser(domainauth.RoleUnassigned))}

	w, called := serveGuarded(guard, domainauth.RoleStaff,
		withSessionCookie(browserRequest(http.MethodGet, "/dashboard"), "sess-1"))

	assert.False(t, called)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/role-setup", w.Header().Get("Location"))
}

func TestGuard_RequireRole_UnassignedAPIGets403(t *testing.T) {
	guard := &Guard{Sessions: sessionsFor(testUser(domainauth.RoleUnassigned))}

	w, called := serveGuarded(guard, domainauth.RoleStaff,
		withSessionCookie(apiRequest(http.MethodGet, "/dashboard/events"), "sess-1"))

	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "role_setup_required")
}

func TestGuard_RequireRole_InsufficientRoleRedirectsToOwnLanding(t *testing.T) {
	guard := &Guard{Sessions: sessionsFor(testUser(domainauth.RoleStaff))}

	w, called := serveGuarded(guard, domainauth.RoleSuperAdmin,
		withSessionCookie(browserRequest(http.MethodGet, "/superadmin"), "sess-1"))

	assert.False(t, called)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"),
		"a staff user is sent to their own landing, not an error page")
}

func TestGuard_RequireRole_InsufficientRoleAPIGets403(t *testing.T) {
	guard := &Guard{Sessions: sessionsFor(testUser(domainauth.RoleStaff))}

	w, called := serveGuarded(guard, domainauth.RoleSuperAdmin,
		withSessionCookie(apiRequest(http.MethodGet, "/superadmin/users"), "sess-1"))

	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient_permissions")
}

func TestGuard_RequireRole_Hierarchy(t *testing.T) {
	cases := []struct {
		user    domainauth.Role
		minimum domainauth.Role
		allowed bool
	}{
		{domainauth.RoleStaff, domainauth.RoleStaff, true},
		{domainauth.RoleAdmin, domainauth.RoleStaff, true},
		{domainauth.RoleSuperAdmin, domainauth.RoleStaff, true},
		{domainauth.RoleStaff, domainauth.RoleAdmin, false},
		{domainauth.RoleAdmin, domainauth.RoleSuperAdmin, false},
		{domainauth.RoleSuperAdmin, domainauth.RoleSuperAdmin, true},
	}

	for _, tc := range cases {
		guard := &Guard{Sessions: sessionsFor(testUser(tc.user))}
		w, called := serveGuarded(guard, tc.minimum,
			withSessionCookie(apiRequest(http.MethodGet, "/dashboard"), "sess-1"))

		if tc.allowed {
			assert.Truef(t, called, "%s should reach a %s route", tc.user, tc.minimum)
			assert.Equal(t, http.StatusOK, w.Code)
		} else {
			assert.Falsef(t, called, "%s should not reach a %s route", tc.user, tc.minimum)
		}
	}
}

func TestGuard_RequireSession_AdmitsUnassigned(t *testing.T) {
	guard := &Guard{Sessions: sessionsFor(testUser(domainauth.RoleUnassigned))}

	called := false
	handler := guard.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		user, ok := UserFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, domainauth.RoleUnassigned, user.Role)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, withSessionCookie(browserRequest(http.MethodGet, "/role-setup"), "sess-1"))

	assert.True(t, called)
}

func TestGuard_ProbeRunsPerRequest(t *testing.T) {
	probes := 0
	sessions := &fakeSessions{
		CurrentUserFunc: func(context.Context, string) (domainauth.User, error) {
			probes++
			return testUser(domainauth.RoleAdmin), nil
		},
	}
	guard := &Guard{Sessions: sessions}

	for range 3 {
		_, _ = serveGuarded(guard, domainauth.RoleStaff,
			withSessionCookie(apiRequest(http.MethodGet, "/dashboard"), "sess-1"))
	}

	assert.Equal(t, 3, probes, "the identity probe must never be cached across requests")
}
