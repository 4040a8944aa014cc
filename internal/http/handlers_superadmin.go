package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/acaralabs/acara-web/internal/backend"
	domainauth "github.com/acaralabs/acara-web/internal/domain/auth"
)

// SuperadminHandlers serves the user directory behind the superadmin guard.
type SuperadminHandlers struct {
	Directory DirectoryAPI
	Logger    *slog.Logger
}

// Landing handles GET /superadmin.
func (h *SuperadminHandlers) Landing(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	WriteJSON(w, http.StatusOK, map[string]any{"user": userPayload(user)})
}

// ListUsers handles GET /superadmin/users with optional search and role filters.
func (h *SuperadminHandlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := backend.UserQuery{
		Search: r.URL.Query().Get("search"),
		Role:   domainauth.Role(r.URL.Query().Get("role")),
	}
	if q.Role != "" && !q.Role.Valid() {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_role",
			Err:     errors.New("unknown role filter"),
		})
		return
	}

	users, err := h.Directory.ListUsers(r.Context(), q)
	if err != nil {
		h.writeUpstreamError(w, r, "list users", err)
		return
	}

	payloads := make([]map[string]any, 0, len(users))
	for _, u := range users {
		payloads = append(payloads, userPayload(u))
	}
	WriteJSON(w, http.StatusOK, map[string]any{"users": payloads})
}

type userUpdateRequest struct {
	Role     *string `json:"role"     validate:"omitempty,oneof=unassigned staff admin superadmin"`
	Verified *bool   `json:"verified"`
	Active   *bool   `json:"active"`
}

// UpdateUser handles PATCH /superadmin/users/{id}. Only the provided fields
// change; superadmins may assign any role, including superadmin itself.
func (h *SuperadminHandlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req userUpdateRequest
	if !DecodeValid(w, r, &req) {
		return
	}
	if req.Role == nil && req.Verified == nil && req.Active == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "empty_update",
			Err:     errors.New("at least one field must be provided"),
		})
		return
	}

	update := backend.UserUpdate{Verified: req.Verified, Active: req.Active}
	if req.Role != nil {
		role := domainauth.Role(*req.Role)
		update.Role = &role
	}

	user, err := h.Directory.UpdateUser(r.Context(), r.PathValue("id"), update)
	if err != nil {
		h.writeUpstreamError(w, r, "update user", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"user": userPayload(user)})
}

// DeleteUser handles DELETE /superadmin/users/{id}. Self-deletion is refused
// so a superadmin cannot lock the directory.
func (h *SuperadminHandlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	targetID := r.PathValue("id")
	if actor, ok := UserFromContext(r.Context()); ok && actor.ID == targetID {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "self_deletion",
			Err:     errors.New("cannot delete your own account"),
		})
		return
	}

	if err := h.Directory.DeleteUser(r.Context(), targetID); err != nil {
		h.writeUpstreamError(w, r, "delete user", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *SuperadminHandlers) writeUpstreamError(w http.ResponseWriter, r *http.Request, op string, err error) {
	writeUpstreamError(w, r, upstreamErrorParams{Logger: h.Logger, Op: op, Err: err})
}
