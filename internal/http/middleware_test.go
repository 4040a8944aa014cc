package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEdgeGate_BouncesAnonymousProtectedRequests(t *testing.T) {
	called := false
	handler := EdgeGate()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, browserRequest(http.MethodGet, "/dashboard/events"))

	assert.False(t, called)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/auth/login")
}

func TestEdgeGate_PassesPublicPaths(t *testing.T) {
	paths := []string{"/", "/api/events", "/auth/login", "/dashboardy", "/healthz"}
	for _, path := range paths {
		called := false
		handler := EdgeGate()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		handler.ServeHTTP(httptest.NewRecorder(), browserRequest(http.MethodGet, path))
		assert.Truef(t, called, "%s should pass the gate without a cookie", path)
	}
}

func TestEdgeGate_PassesCookieBearers(t *testing.T) {
	// Presence is enough at the edge; validity is the guard's job.
	called := false
	handler := EdgeGate()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	handler.ServeHTTP(httptest.NewRecorder(),
		withSessionCookie(browserRequest(http.MethodGet, "/superadmin"), "maybe-dead"))
	assert.True(t, called)
}

func TestIsProtectedPath(t *testing.T) {
	assert.True(t, isProtectedPath("/dashboard"))
	assert.True(t, isProtectedPath("/dashboard/events/42"))
	assert.True(t, isProtectedPath("/superadmin/users"))
	assert.True(t, isProtectedPath("/role-setup"))
	assert.False(t, isProtectedPath("/dashboards"))
	assert.False(t, isProtectedPath("/"))
	assert.False(t, isProtectedPath("/api/events"))
}

func TestIsBrowserRequest(t *testing.T) {
	cases := []struct {
		name    string
		path    string
		accept  string
		browser bool
	}{
		{"html accept on page", "/dashboard", "text/html,application/xhtml+xml", true},
		{"no accept on page", "/dashboard", "", true},
		{"json accept on page", "/dashboard", "application/json", false},
		{"api prefix always json", "/api/events", "text/html", false},
		{"auth prefix always json", "/auth/login", "text/html", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.accept != "" {
				r.Header.Set("Accept", tc.accept)
			}
			assert.Equal(t, tc.browser, isBrowserRequest(r))
		})
	}
}

func TestRedirectToLogin_PreservesQuery(t *testing.T) {
	w := httptest.NewRecorder()
	redirectToLogin(w, browserRequest(http.MethodGet, "/dashboard/orders?sort_by=total"))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/auth/login?redirect_uri=%2Fdashboard%2Forders%3Fsort_by%3Dtotal",
		w.Header().Get("Location"))
}

func TestSafeRedirectPath(t *testing.T) {
	assert.Equal(t, "/dashboard", safeRedirectPath("/dashboard"))
	assert.Equal(t, "/a?b=c", safeRedirectPath("/a?b=c"))
	assert.Equal(t, "/", safeRedirectPath(""))
	assert.Equal(t, "/", safeRedirectPath("https://evil.example/phish"))
	assert.Equal(t, "/", safeRedirectPath("//evil.example/phish"))
	assert.Equal(t, "/", safeRedirectPath("relative/path"))
}

func TestBrowserDetection_StoresResultInContext(t *testing.T) {
	var fromContext bool
	handler := BrowserDetection()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromContext = IsBrowserRequest(r)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), browserRequest(http.MethodGet, "/dashboard"))
	assert.True(t, fromContext)

	handler.ServeHTTP(httptest.NewRecorder(), apiRequest(http.MethodGet, "/api/events"))
	assert.False(t, fromContext)
}

func TestLogging_PreservesStatus(t *testing.T) {
	handler := Logging(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, apiRequest(http.MethodGet, "/api/events"))
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestRecover_TurnsPanicInto500(t *testing.T) {
	handler := Recover(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, apiRequest(http.MethodGet, "/api/events"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
