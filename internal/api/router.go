// Package api wires the public API: middleware chain, PDPA gate and routes.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"containerbase/internal/api/handler"
	"containerbase/internal/api/middleware"
	"containerbase/internal/platform/config"
	"containerbase/internal/platform/metrics"
	"containerbase/internal/platform/telemetry"
	"containerbase/pkg/platform/middleware/metadata"
	"containerbase/pkg/platform/middleware/requestid"
	"containerbase/pkg/platform/middleware/requesttime"
)

// NewRouter builds the API handler. Middleware order is tracing, request ID,
// request time, client metadata, PDPA gate, then the route.
func NewRouter(cfg config.API, logger *slog.Logger, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(telemetry.HTTPMiddleware(cfg.ServiceName))
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(middleware.NewConsentGate(logger, m, cfg.GateExemptPaths).Handler)

	handler.New(logger).Register(r)
	if cfg.MetricsEnabled {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}
	return r
}
