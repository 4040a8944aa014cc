package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/acaralabs/acara-web/internal/backend"
)

// upstreamErrorParams groups parameters for writeUpstreamError.
type upstreamErrorParams struct {
	Logger *slog.Logger
	Op     string
	Err    error
}

// writeUpstreamError translates backend failures into API responses. Typed
// API errors pass through with their original status; everything else is a
// gateway problem from the client's perspective.
func writeUpstreamError(w http.ResponseWriter, r *http.Request, p upstreamErrorParams) {
	var apiErr *backend.APIError
	if errors.As(p.Err, &apiErr) {
		WriteError(w, ErrorParams{Code: apiErr.Status, ErrCode: apiErr.Code, Err: apiErr})
		return
	}

	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.ErrorContext(r.Context(), "upstream call failed", "op", p.Op, "error", p.Err)
	WriteError(w, ErrorParams{
		Code:    http.StatusBadGateway,
		ErrCode: "backend_unavailable",
		Err:     errors.New("the service is temporarily unavailable"),
	})
}
