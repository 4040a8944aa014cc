package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/acaralabs/acara-web/internal/backend"
)

// DashboardHandlers serves the staff/admin area. Every request arrives with
// the session ID in context, so backend calls carry the caller's bearer.
type DashboardHandlers struct {
	Events EventAPI
	Orders OrderAPI
	Certs  CertificateAPI
	Logger *slog.Logger
}

// Landing handles GET /dashboard. It returns the signed-in user and their
// events so the frontend can render the overview in one round trip.
func (h *DashboardHandlers) Landing(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	events, err := h.Events.ListMyEvents(r.Context())
	if err != nil {
		h.writeUpstreamError(w, r, "list my events", err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"user":   userPayload(user),
		"events": events,
	})
}

// ListMyEvents handles GET /dashboard/events.
func (h *DashboardHandlers) ListMyEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Events.ListMyEvents(r.Context())
	if err != nil {
		h.writeUpstreamError(w, r, "list my events", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}

// GetEvent handles GET /dashboard/events/{id}.
func (h *DashboardHandlers) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.Events.GetEvent(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeUpstreamError(w, r, "get event", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"event": event})
}

type eventRequest struct {
	Title       string `json:"title"       validate:"required,min=3,max=200"`
	Organizer   string `json:"organizer"   validate:"max=200"`
	Datetime    string `json:"datetime"    validate:"required"`
	Location    string `json:"location"    validate:"required,max=300"`
	Description string `json:"description" validate:"max=5000"`
	Capacity    int    `json:"capacity"    validate:"required,min=1"`
	Price       int64  `json:"price"       validate:"min=0"`
	Image       string `json:"image"       validate:"omitempty,url"`
	Status      string `json:"status"      validate:"omitempty,oneof=draft published closed"`
}

func (req *eventRequest) payload() backend.EventPayload {
	capacity := req.Capacity
	price := req.Price
	return backend.EventPayload{
		Title:       req.Title,
		Organizer:   req.Organizer,
		Datetime:    req.Datetime,
		Location:    req.Location,
		Description: req.Description,
		Capacity:    &capacity,
		Price:       &price,
		Image:       req.Image,
		Status:      req.Status,
	}
}

// CreateEvent handles POST /dashboard/events.
func (h *DashboardHandlers) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if !DecodeValid(w, r, &req) {
		return
	}

	event, err := h.Events.CreateEvent(r.Context(), req.payload())
	if err != nil {
		h.writeUpstreamError(w, r, "create event", err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]any{"event": event})
}

// UpdateEvent handles PUT /dashboard/events/{id}.
func (h *DashboardHandlers) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if !DecodeValid(w, r, &req) {
		return
	}

	event, err := h.Events.UpdateEvent(r.Context(), r.PathValue("id"), req.payload())
	if err != nil {
		h.writeUpstreamError(w, r, "update event", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"event": event})
}

// DeleteEvent handles DELETE /dashboard/events/{id}.
func (h *DashboardHandlers) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.Events.DeleteEvent(r.Context(), r.PathValue("id")); err != nil {
		h.writeUpstreamError(w, r, "delete event", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ListOrders handles GET /dashboard/events/{id}/orders. Used by the check-in
// screen, so participants are expanded and sorted by registration time.
func (h *DashboardHandlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := backend.OrderQuery{
		EventID: r.PathValue("id"),
		Expand:  true,
		SortBy:  r.URL.Query().Get("sort_by"),
		SortDir: r.URL.Query().Get("sort_dir"),
	}
	if q.SortBy == "" {
		q.SortBy = "created_at"
	}
	if q.SortDir == "" {
		q.SortDir = "desc"
	}

	orders, err := h.Orders.ListOrders(r.Context(), q)
	if err != nil {
		h.writeUpstreamError(w, r, "list orders", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

// IssueCertificates handles POST /dashboard/events/{id}/certificates/issue.
func (h *DashboardHandlers) IssueCertificates(w http.ResponseWriter, r *http.Request) {
	result, err := h.Certs.IssueCertificates(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeUpstreamError(w, r, "issue certificates", err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// UploadCertBackground handles PUT /dashboard/events/{id}/certificate-background.
// The multipart file is streamed to backend storage, then the event record is
// pointed at the stored URL.
func (h *DashboardHandlers) UploadCertBackground(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_upload",
			Err:     errors.New("multipart field 'file' is required"),
		})
		return
	}
	defer file.Close()

	storedURL, err := h.Events.UploadImage(r.Context(), header.Filename, file)
	if err != nil {
		h.writeUpstreamError(w, r, "upload image", err)
		return
	}

	eventID := r.PathValue("id")
	event, err := h.Events.UpdateEvent(r.Context(), eventID, backend.EventPayload{CertBackground: &storedURL})
	if err != nil {
		h.writeUpstreamError(w, r, "set certificate background", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"event": event, "url": storedURL})
}

func (h *DashboardHandlers) writeUpstreamError(w http.ResponseWriter, r *http.Request, op string, err error) {
	writeUpstreamError(w, r, upstreamErrorParams{Logger: h.Logger, Op: op, Err: err})
}
