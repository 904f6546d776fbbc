package rest

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/thornfield-systems/behavior-guard/internal/infrastructure/config"
	"github.com/thornfield-systems/behavior-guard/internal/metrics"
)

// NewRouter builds the full HTTP handler tree: metrics, the versioned API
// surface, and (in development) the debug endpoint.
func NewRouter(h *Handlers, reg *metrics.Registry, cfg *config.Config, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.HandleFunc("POST /api/v1/sessions", h.CreateSession)
	mux.HandleFunc("POST /api/v1/sessions/{id}/signals", h.AppendSignals)
	mux.HandleFunc("POST /api/v1/sessions/{id}/complete", h.CompleteSession)
	mux.HandleFunc("GET /api/v1/sessions/{id}/analysis", h.GetAnalysis)
	mux.HandleFunc("POST /api/v1/analyze", h.Analyze)

	if cfg.Environment == config.EnvDevelopment {
		mux.HandleFunc("GET /api/v1/debug/sessions/{id}/signals", h.DebugSignals)
	}

	mux.Handle("/metrics", promhttp.Handler())

	return chain(mux,
		recoveryMiddleware(logger),
		requestIDMiddleware,
		loggingMiddleware(logger),
		metricsMiddleware(reg),
		corsMiddleware,
	)
}
