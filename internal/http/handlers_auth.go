package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/acaralabs/acara-web/internal/backend"
	domainauth "github.com/acaralabs/acara-web/internal/domain/auth"
	"github.com/acaralabs/acara-web/internal/ports"
	"github.com/acaralabs/acara-web/internal/service"
)

// AuthHandlers handles the session lifecycle endpoints.
type AuthHandlers struct {
	Svc          SessionServiceInterface
	CookieDomain string
	Logger       *slog.Logger
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required,min=2,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Login handles POST /auth/login. On success it sets the session cookie and
// returns the user plus the landing path the frontend should navigate to.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeValid(w, r, &req) {
		return
	}

	result, err := h.Svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeLoginError(w, r, err)
		return
	}

	setSessionCookie(w, r, sessionCookieParams{
		Value:     result.Session.ID,
		Domain:    h.CookieDomain,
		ExpiresAt: result.ExpiresAt,
	})

	redirectTo := result.User.Role.LandingPath()
	WriteJSON(w, http.StatusOK, map[string]any{
		"user":        userPayload(result.User),
		"redirect_to": redirectTo,
	})
}

// writeLoginError maps login failures onto client responses without leaking
// which part of the credential pair was wrong.
func (h *AuthHandlers) writeLoginError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, backend.ErrCredentialRejected):
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "invalid_credentials",
			Err:     errors.New("email or password is incorrect"),
		})
	case errors.Is(err, backend.ErrUnavailable), errors.Is(err, backend.ErrNotConfigured):
		h.logger().ErrorContext(r.Context(), "login backend unavailable", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusBadGateway,
			ErrCode: "backend_unavailable",
			Err:     errors.New("the service is temporarily unavailable"),
		})
	default:
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			WriteError(w, ErrorParams{Code: apiErr.Status, ErrCode: apiErr.Code, Err: apiErr})
			return
		}
		h.logger().ErrorContext(r.Context(), "login failed", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "login_failed",
			Err:     errors.New("could not complete login"),
		})
	}
}

// Register handles POST /auth/register. No session is created; the client is
// expected to log in afterwards.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !DecodeValid(w, r, &req) {
		return
	}

	err := h.Svc.Register(r.Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			WriteError(w, ErrorParams{Code: apiErr.Status, ErrCode: apiErr.Code, Err: apiErr})
			return
		}
		h.logger().ErrorContext(r.Context(), "registration failed", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "registration_failed",
			Err:     errors.New("could not complete registration"),
		})
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]string{"status": "registered"})
}

// Logout handles POST /auth/logout. The cookie and credential are cleared
// even when the backend cannot be reached; logging out always succeeds from
// the browser's point of view.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDFromRequest(r)
	if err := h.Svc.Logout(r.Context(), sessionID); err != nil {
		h.logger().WarnContext(r.Context(), "logout cleanup failed", "error", err)
	}
	clearSessionCookie(w, r)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out", "redirect_to": "/"})
}

// Status handles GET /auth/session. It reports whether the session is live
// without ever blocking; an anonymous or dead session is a normal answer,
// not an error.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDFromRequest(r)
	status := h.Svc.SessionStatus(r.Context(), sessionID)
	if !status.Authenticated {
		if sessionID != "" {
			clearSessionCookie(w, r)
		}
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          userPayload(status.User),
		"expires_at":    status.ExpiresAt,
	})
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// userPayload shapes a user for API responses.
func userPayload(u domainauth.User) map[string]any {
	return map[string]any{
		"id":       u.ID,
		"name":     u.Name,
		"email":    u.Email,
		"role":     u.Role,
		"verified": u.Verified,
		"active":   u.Active,
	}
}

// compile-time check that the concrete service satisfies the handler contract
var _ SessionServiceInterface = (*service.SessionService)(nil)
