package httpx

import (
	"errors"
	"net/http"

	domainauth "github.com/acaralabs/acara-web/internal/domain/auth"
	"github.com/acaralabs/acara-web/internal/service"
)

// RoleHandlers handles one-time role setup for freshly registered users.
type RoleHandlers struct {
	Svc SessionServiceInterface
}

type roleSetupRequest struct {
	Role string `json:"role" validate:"required,oneof=staff admin"`
}

// Show handles GET /role-setup. Users who already picked a role are sent to
// their landing page so the setup screen cannot be revisited.
func (h *RoleHandlers) Show(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		redirectToLogin(w, r)
		return
	}
	if user.Role.Assigned() {
		if IsBrowserRequest(r) {
			http.Redirect(w, r, user.Role.LandingPath(), http.StatusSeeOther)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{
			"user":        userPayload(user),
			"redirect_to": user.Role.LandingPath(),
		})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"user":            userPayload(user),
		"available_roles": []domainauth.Role{domainauth.RoleStaff, domainauth.RoleAdmin},
	})
}

// Submit handles POST /role-setup. A successful pick rotates the credential
// server-side and tells the frontend where to land next.
func (h *RoleHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	var req roleSetupRequest
	if !DecodeValid(w, r, &req) {
		return
	}

	sessionID := sessionIDFromRequest(r)
	user, err := h.Svc.ChangeRole(r.Context(), sessionID, domainauth.Role(req.Role))
	if err != nil {
		if errors.Is(err, service.ErrInvalidRole) {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_role", Err: err})
			return
		}
		WriteError(w, ErrorParams{
			Code:    http.StatusBadGateway,
			ErrCode: "role_setup_failed",
			Err:     errors.New("could not complete role setup"),
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"user":        userPayload(user),
		"redirect_to": user.Role.LandingPath(),
	})
}
