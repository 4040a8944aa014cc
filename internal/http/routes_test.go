package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acaralabs/acara-web/internal/backend"
)

func newTestRouter() http.Handler {
	events := &fakeEventAPI{
		ListEventsFunc: func(context.Context) ([]backend.Event, error) {
			return []backend.Event{{ID: "ev-1", Title: "Go Meetup"}}, nil
		},
	}
	return NewRouter(RouterServices{
		Sessions: &fakeSessions{},
		Events:   events,
		Logger:   discardLogger(),
	})
}

func requestsRecorded(method, route string, status int) float64 {
	return promtestutil.ToFloat64(
		httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)))
}

func TestRouter_MetricsUseMatchedPattern(t *testing.T) {
	router := newTestRouter()

	const route = "GET /api/events"
	before := requestsRecorded(http.MethodGet, route, http.StatusOK)
	unmatchedBefore := requestsRecorded(http.MethodGet, "unmatched", http.StatusOK)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, apiRequest(http.MethodGet, "/api/events"))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 1.0, requestsRecorded(http.MethodGet, route, http.StatusOK)-before,
		"the request must be counted under its mux pattern")
	assert.Equal(t, 0.0, requestsRecorded(http.MethodGet, "unmatched", http.StatusOK)-unmatchedBefore,
		"a routed request must never fall into the unmatched bucket")
}

func TestRouter_MetricsPatternSurvivesBrowserDetection(t *testing.T) {
	// Browser requests take the same context-copying detection path; the
	// route label has to survive it too.
	router := newTestRouter()

	const route = "GET /healthz"
	before := requestsRecorded(http.MethodGet, route, http.StatusOK)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, browserRequest(http.MethodGet, "/healthz"))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 1.0, requestsRecorded(http.MethodGet, route, http.StatusOK)-before)
}

func TestRouter_GuardStillSeesBrowserDetection(t *testing.T) {
	// Metrics now sits between detection and the gate; the gate's
	// browser-vs-API choice must keep working through it.
	router := newTestRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, browserRequest(http.MethodGet, "/dashboard"))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/auth/login")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, apiRequest(http.MethodGet, "/dashboard/events"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
