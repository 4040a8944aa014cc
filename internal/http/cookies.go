package httpx

import (
	"net/http"
	"strings"
	"time"
)

// sessionCookieParams groups values needed to set the session cookie.
type sessionCookieParams struct {
	Value     string
	Domain    string
	ExpiresAt time.Time
}

// setSessionCookie writes the session cookie. Lifetime follows the credential
// expiry; a credential without one yields a session-scoped cookie.
func setSessionCookie(w http.ResponseWriter, r *http.Request, p sessionCookieParams) {
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    p.Value,
		Path:     "/",
		Domain:   p.Domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	}
	if !p.ExpiresAt.IsZero() {
		cookie.MaxAge = int(time.Until(p.ExpiresAt).Seconds())
	}
	http.SetCookie(w, cookie)
}

// clearSessionCookie clears the session cookie by setting it to expire
// immediately, mirroring the attributes used when setting it.
func clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// isSecureRequest reports whether the request arrived over TLS, directly or
// behind a terminating proxy.
func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
