package httpx

import (
	"log/slog"
	"net/http"

	"github.com/acaralabs/acara-web/internal/backend"
)

// PublicHandlers serves the anonymous surface: the event catalogue, visitor
// registration, organizer applications, and certificate verification. No
// credential is ever attached to these backend calls.
type PublicHandlers struct {
	Events EventAPI
	Orders OrderAPI
	Certs  CertificateAPI
	Logger *slog.Logger
}

// ListEvents handles GET /api/events.
func (h *PublicHandlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Events.ListEvents(r.Context())
	if err != nil {
		h.writeUpstreamError(w, r, "list events", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}

// GetEvent handles GET /api/events/{id}.
func (h *PublicHandlers) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.Events.GetEvent(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeUpstreamError(w, r, "get event", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"event": event})
}

type registrationRequest struct {
	Name  string `json:"name"  validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,min=6,max=20"`
}

// RegisterParticipant handles POST /api/events/{id}/register. Visitors
// register without an account; the response carries the payment reference
// when the event is paid.
func (h *PublicHandlers) RegisterParticipant(w http.ResponseWriter, r *http.Request) {
	var req registrationRequest
	if !DecodeValid(w, r, &req) {
		return
	}

	result, err := h.Orders.RegisterParticipant(r.Context(), backend.RegistrationInput{
		EventID: r.PathValue("id"),
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
	})
	if err != nil {
		h.writeUpstreamError(w, r, "register participant", err)
		return
	}
	WriteJSON(w, http.StatusCreated, result)
}

type organizerApplicationRequest struct {
	Name         string `json:"name"         validate:"required,min=2,max=100"`
	Email        string `json:"email"        validate:"required,email"`
	Organization string `json:"organization" validate:"required,min=2,max=200"`
	Message      string `json:"message"      validate:"max=2000"`
}

// ApplyOrganizer handles POST /api/organizers/apply.
func (h *PublicHandlers) ApplyOrganizer(w http.ResponseWriter, r *http.Request) {
	var req organizerApplicationRequest
	if !DecodeValid(w, r, &req) {
		return
	}

	err := h.Orders.ApplyOrganizer(r.Context(), backend.OrganizerApplication{
		Name:         req.Name,
		Email:        req.Email,
		Organization: req.Organization,
		Message:      req.Message,
	})
	if err != nil {
		h.writeUpstreamError(w, r, "apply organizer", err)
		return
	}
	WriteJSON(w, http.StatusAccepted, map[string]string{"status": "submitted"})
}

// VerifyCertificate handles GET /api/certificates/{id}. Anyone holding a
// certificate ID can check its authenticity.
func (h *PublicHandlers) VerifyCertificate(w http.ResponseWriter, r *http.Request) {
	cert, err := h.Certs.GetPublicCertificate(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeUpstreamError(w, r, "verify certificate", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"certificate": cert})
}

func (h *PublicHandlers) writeUpstreamError(w http.ResponseWriter, r *http.Request, op string, err error) {
	writeUpstreamError(w, r, upstreamErrorParams{Logger: h.Logger, Op: op, Err: err})
}
