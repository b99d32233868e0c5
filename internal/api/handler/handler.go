package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"containerbase/internal/pdpa"
	"containerbase/internal/platform/logger"
	dErrors "containerbase/pkg/domain-errors"
	"containerbase/pkg/platform/httputil"
	"containerbase/pkg/requestcontext"
)

// Handler serves the API health checks and the consent echo endpoint.
type Handler struct {
	logger *slog.Logger
}

// New constructs an API handler.
func New(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Register mounts the handler's routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/healthz", h.HandleHealth)
	r.Get("/readyz", h.HandleReady)
	r.Get("/v1/consent", h.HandleConsent)
}

// StatusResponse is the body of the health endpoints.
type StatusResponse struct {
	Status string `json:"status"`
}

// HandleHealth handles GET /healthz.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	logger.LogEvent(r.Context(), h.logger, logger.Event{OpID: "healthz", Code: logger.CodeHealth, Message: "API liveness check"})
	httputil.WriteJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// HandleReady handles GET /readyz.
func (h *Handler) HandleReady(w http.ResponseWriter, r *http.Request) {
	logger.LogEvent(r.Context(), h.logger, logger.Event{OpID: "readyz", Code: logger.CodeReady, Message: "API readiness check"})
	httputil.WriteJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// ConsentResponse echoes what the gate accepted for the request. Only
// redacted PII is ever included.
type ConsentResponse struct {
	Consent     pdpa.ConsentRecord `json:"consent"`
	MaskedEmail *string            `json:"masked_email,omitempty"`
	GPS         *GPSResponse       `json:"gps,omitempty"`
	RequestID   string             `json:"request_id,omitempty"`
}

// GPSResponse holds rounded coordinates rendered with three decimals.
type GPSResponse struct {
	Latitude  string `json:"lat"`
	Longitude string `json:"lon"`
}

// HandleConsent handles GET /v1/consent.
func (h *Handler) HandleConsent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	record, ok := requestcontext.Consent(ctx)
	if !ok {
		// the route is only reachable through the consent gate
		h.logger.ErrorContext(ctx, "consent endpoint reached without gate",
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "consent gate not applied"))
		return
	}

	redactions := requestcontext.RedactionsFrom(ctx)
	resp := ConsentResponse{
		Consent:     record,
		MaskedEmail: redactions.MaskedEmail,
		RequestID:   requestcontext.RequestID(ctx),
	}
	if gps := redactions.RoundedGPS; gps != nil {
		resp.GPS = &GPSResponse{
			Latitude:  pdpa.FormatCoordinate(gps.Latitude),
			Longitude: pdpa.FormatCoordinate(gps.Longitude),
		}
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
