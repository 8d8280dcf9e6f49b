package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	electionhandler "univote/internal/election/handler"
	"univote/internal/platform/metrics"
	"univote/internal/platform/middleware"
	voterhandler "univote/internal/voter/handler"
)

// NewRouter wires all public endpoints behind the shared middleware chain.
// Unmatched paths and methods answer with the API's uniform invalid-endpoint
// message.
func NewRouter(
	logger *slog.Logger,
	m *metrics.Metrics,
	requestTimeout time.Duration,
	voters *voterhandler.Handler,
	elections *electionhandler.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Latency(m))

	r.NotFound(invalidEndpoint)
	r.MethodNotAllowed(invalidEndpoint)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	voters.Register(r)
	elections.Register(r)

	return r
}

func invalidEndpoint(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(`{"message":"Invalid endpoint!"}`))
}
