package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acaralabs/acara-web/internal/backend"
	domainauth "github.com/acaralabs/acara-web/internal/domain/auth"
	"github.com/acaralabs/acara-web/internal/ports"
	"github.com/acaralabs/acara-web/internal/service"
)

func sessionCookieFrom(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	return nil
}

func TestAuthHandlers_Login(t *testing.T) {
	expiry := time.Now().Add(2 * time.Hour)
	h := &AuthHandlers{Svc: &fakeSessions{
		LoginFunc: func(_ context.Context, email, password string) (*service.LoginResult, error) {
			assert.Equal(t, "admin@example.com", email)
			assert.Equal(t, "correct-horse", password)
			return &service.LoginResult{
				Session:   domainauth.Session{ID: "sess-new", CreatedAt: time.Now()},
				User:      testUser(domainauth.RoleAdmin),
				ExpiresAt: expiry,
			}, nil
		},
	}}

	body := `{"email":"admin@example.com","password":"correct-horse"}`
	r := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Login(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	cookie := sessionCookieFrom(t, w)
	require.NotNil(t, cookie, "login must set the session cookie")
	assert.Equal(t, "sess-new", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.InDelta(t, 2*time.Hour.Seconds(), float64(cookie.MaxAge), 5,
		"cookie lifetime should track the credential expiry")

	var resp struct {
		User       map[string]any `json:"user"`
		RedirectTo string         `json:"redirect_to"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "/dashboard", resp.RedirectTo)
	assert.Equal(t, "u1", resp.User["id"])
}

func TestAuthHandlers_Login_InvalidCredentials(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeSessions{
		LoginFunc: func(context.Context, string, string) (*service.LoginResult, error) {
			return nil, &backend.APIError{Status: http.StatusUnauthorized, Code: "unauthorized"}
		},
	}}

	body := `{"email":"admin@example.com","password":"wrong-horse"}`
	r := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Login(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_credentials")
	assert.Nil(t, sessionCookieFrom(t, w), "no cookie on a failed login")
}

func TestAuthHandlers_Login_BackendDown(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeSessions{
		LoginFunc: func(context.Context, string, string) (*service.LoginResult, error) {
			return nil, backend.ErrUnavailable
		},
	}}

	body := `{"email":"admin@example.com","password":"correct-horse"}`
	r := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Login(w, r)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "backend_unavailable")
}

func TestAuthHandlers_Login_Validation(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeSessions{
		LoginFunc: func(context.Context, string, string) (*service.LoginResult, error) {
			t.Fatal("service must not be reached on invalid input")
			return nil, nil
		},
	}}

	cases := []struct{ name, body string }{
		{"missing email", `{"password":"correct-horse"}`},
		{"malformed email", `{"email":"nope","password":"correct-horse"}`},
		{"short password", `{"email":"a@b.co","password":"short"}`},
		{"unknown field", `{"email":"a@b.co","password":"correct-horse","extra":1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tc.body))
			w := httptest.NewRecorder()
			h.Login(w, r)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAuthHandlers_Register(t *testing.T) {
	var got ports.RegisterInput
	h := &AuthHandlers{Svc: &fakeSessions{
		RegisterFunc: func(_ context.Context, in ports.RegisterInput) error {
			got = in
			return nil
		},
	}}

	body := `{"name":"New User","email":"new@example.com","password":"correct-horse"}`
	r := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Register(w, r)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "New User", got.Name)
	assert.Equal(t, "new@example.com", got.Email)
	assert.Nil(t, sessionCookieFrom(t, w), "registration never creates a session")
}

func TestAuthHandlers_Register_BackendError(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeSessions{
		RegisterFunc: func(context.Context, ports.RegisterInput) error {
			return &backend.APIError{Status: http.StatusConflict, Code: "email_taken"}
		},
	}}

	body := `{"name":"New User","email":"new@example.com","password":"correct-horse"}`
	r := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Register(w, r)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "email_taken")
}

func TestAuthHandlers_Logout(t *testing.T) {
	var loggedOut string
	h := &AuthHandlers{Svc: &fakeSessions{
		LogoutFunc: func(_ context.Context, sessionID string) error {
			loggedOut = sessionID
			return nil
		},
	}}

	r := withSessionCookie(httptest.NewRequest(http.MethodPost, "/auth/logout", nil), "sess-1")
	w := httptest.NewRecorder()
	h.Logout(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sess-1", loggedOut)

	cookie := sessionCookieFrom(t, w)
	require.NotNil(t, cookie)
	assert.Less(t, cookie.MaxAge, 0, "logout must expire the cookie")
}

func TestAuthHandlers_Logout_BackendFailureStillClearsCookie(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeSessions{
		LogoutFunc: func(context.Context, string) error {
			return backend.ErrUnavailable
		},
	}}

	r := withSessionCookie(httptest.NewRequest(http.MethodPost, "/auth/logout", nil), "sess-1")
	w := httptest.NewRecorder()
	h.Logout(w, r)

	assert.Equal(t, http.StatusOK, w.Code, "logout succeeds even when the backend is down")
	cookie := sessionCookieFrom(t, w)
	require.NotNil(t, cookie)
	assert.Less(t, cookie.MaxAge, 0)
}

func TestAuthHandlers_Status_Authenticated(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeSessions{
		StatusFunc: func(_ context.Context, sessionID string) service.Status {
			assert.Equal(t, "sess-1", sessionID)
			return service.Status{
				Authenticated: true,
				User:          testUser(domainauth.RoleStaff),
				ExpiresAt:     time.Now().Add(time.Hour),
			}
		},
	}}

	r := withSessionCookie(httptest.NewRequest(http.MethodGet, "/auth/session", nil), "sess-1")
	w := httptest.NewRecorder()
	h.Status(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":true`)
}

func TestAuthHandlers_Status_DeadSessionClearsCookie(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeSessions{
		StatusFunc: func(context.Context, string) service.Status {
			return service.Status{Authenticated: false}
		},
	}}

	r := withSessionCookie(httptest.NewRequest(http.MethodGet, "/auth/session", nil), "sess-dead")
	w := httptest.NewRecorder()
	h.Status(w, r)

	assert.Equal(t, http.StatusOK, w.Code, "an anonymous answer is not an error")
	assert.Contains(t, w.Body.String(), `"authenticated":false`)

	cookie := sessionCookieFrom(t, w)
	require.NotNil(t, cookie)
	assert.Less(t, cookie.MaxAge, 0)
}

func TestAuthHandlers_Status_NoCookie(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeSessions{
		StatusFunc: func(context.Context, string) service.Status {
			return service.Status{Authenticated: false}
		},
	}}

	r := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	w := httptest.NewRecorder()
	h.Status(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, sessionCookieFrom(t, w), "nothing to clear for an anonymous visitor")
}

func TestRoleHandlers_Submit(t *testing.T) {
	h := &RoleHandlers{Svc: &fakeSessions{
		ChangeRoleFunc: func(_ context.Context, sessionID string, role domainauth.Role) (domainauth.User, error) {
			assert.Equal(t, "sess-1", sessionID)
			assert.Equal(t, domainauth.RoleAdmin, role)
			return testUser(domainauth.RoleAdmin), nil
		},
	}}

	body := `{"role":"admin"}`
	r := withSessionCookie(httptest.NewRequest(http.MethodPost, "/role-setup", strings.NewReader(body)), "sess-1")
	w := httptest.NewRecorder()
	h.Submit(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redirect_to":"/dashboard"`)
}

func TestRoleHandlers_Submit_RejectsSuperadmin(t *testing.T) {
	h := &RoleHandlers{Svc: &fakeSessions{
		ChangeRoleFunc: func(context.Context, string, domainauth.Role) (domainauth.User, error) {
			t.Fatal("service must not be reached for a disallowed role")
			return domainauth.User{}, nil
		},
	}}

	body := `{"role":"superadmin"}`
	r := withSessionCookie(httptest.NewRequest(http.MethodPost, "/role-setup", strings.NewReader(body)), "sess-1")
	w := httptest.NewRecorder()
	h.Submit(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoleHandlers_Show_AssignedUserIsRedirected(t *testing.T) {
	h := &RoleHandlers{Svc: &fakeSessions{}}

	r := browserRequest(http.MethodGet, "/role-setup")
	r = r.WithContext(SetUserInContext(r.Context(), testUser(domainauth.RoleSuperAdmin)))
	w := httptest.NewRecorder()
	h.Show(w, r)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/superadmin", w.Header().Get("Location"))
}

func TestRoleHandlers_Show_UnassignedSeesChoices(t *testing.T) {
	h := &RoleHandlers{Svc: &fakeSessions{}}

	r := browserRequest(http.MethodGet, "/role-setup")
	r = r.WithContext(SetUserInContext(r.Context(), testUser(domainauth.RoleUnassigned)))
	w := httptest.NewRecorder()
	h.Show(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "available_roles")
	assert.NotContains(t, w.Body.String(), "superadmin", "superadmin is never self-assignable")
}
