package handler

import (
	"bytes"
	"context"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"containerbase/internal/ocr"
	"containerbase/internal/platform/logger"
	dErrors "containerbase/pkg/domain-errors"
	"containerbase/pkg/platform/httputil"
	strutil "containerbase/pkg/platform/strings"
	"containerbase/pkg/requestcontext"
)

// Readiness reports whether the worker accepts new work.
type Readiness interface {
	Ready() bool
}

// Metrics records OCR request outcomes.
type Metrics interface {
	ObserveOCR(outcome string, d time.Duration)
}

// Options bounds each recognition request.
type Options struct {
	MaxImageBytes int64
	Timeout       time.Duration
	Languages     []string
}

// Handler serves the worker health checks and the recognition endpoint.
type Handler struct {
	engine    ocr.Engine
	readiness Readiness
	logger    *slog.Logger
	metrics   Metrics
	opts      Options
}

// New constructs a worker handler.
func New(engine ocr.Engine, readiness Readiness, logger *slog.Logger, metrics Metrics, opts Options) *Handler {
	return &Handler{
		engine:    engine,
		readiness: readiness,
		logger:    logger,
		metrics:   metrics,
		opts:      opts,
	}
}

// Register mounts worker routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/healthz", h.HandleHealth)
	r.Get("/readyz", h.HandleReady)
	r.Post("/v1/ocr", h.HandleRecognize)
}

type statusResponse struct {
	Status string `json:"status"`
}

// HandleHealth handles GET /healthz.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	logger.LogEvent(r.Context(), h.logger, logger.Event{OpID: "healthz", Code: logger.CodeHealth, Message: "OCR worker liveness check"})
	httputil.WriteJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// HandleReady handles GET /readyz. It fails once shutdown has started so the
// load balancer drains the instance.
func (h *Handler) HandleReady(w http.ResponseWriter, r *http.Request) {
	logger.LogEvent(r.Context(), h.logger, logger.Event{OpID: "readyz", Code: logger.CodeReady, Message: "OCR worker readiness check"})
	if !h.readiness.Ready() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "worker is shutting down"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, statusResponse{Status: "ready"})
}

// HandleRecognize handles POST /v1/ocr with a raw image body. An optional
// "lang" query parameter (comma separated) selects a subset of the configured
// languages. Undecodable images and unknown languages are rejected with 400
// before the engine runs.
func (h *Handler) HandleRecognize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := requestcontext.Now(ctx)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.opts.MaxImageBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.metrics.ObserveOCR("too_large", time.Since(start))
			httputil.WriteError(w, dErrors.New(dErrors.CodePayloadTooLarge, "image exceeds size limit"))
			return
		}
		h.metrics.ObserveOCR("bad_request", time.Since(start))
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "failed to read image"))
		return
	}
	if len(body) == 0 {
		h.metrics.ObserveOCR("bad_request", time.Since(start))
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "image body is required"))
		return
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(body)); err != nil {
		h.metrics.ObserveOCR("bad_request", time.Since(start))
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "image format not recognised"))
		return
	}
	langs, err := h.languages(r)
	if err != nil {
		h.metrics.ObserveOCR("bad_request", time.Since(start))
		httputil.WriteError(w, err)
		return
	}

	recognizeCtx, cancel := context.WithTimeout(ctx, h.opts.Timeout)
	defer cancel()

	result, err := h.engine.Recognize(recognizeCtx, ocr.Input{
		Image:     body,
		Languages: langs,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			h.metrics.ObserveOCR("timeout", time.Since(start))
			httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeTimeout, "recognition timed out"))
			return
		}
		if dErrors.HasCode(err, dErrors.CodeBadRequest) {
			h.metrics.ObserveOCR("bad_request", time.Since(start))
			httputil.WriteError(w, err)
			return
		}
		if dErrors.HasCode(err, dErrors.CodeUnavailable) {
			h.metrics.ObserveOCR("unavailable", time.Since(start))
			httputil.WriteError(w, err)
			return
		}
		h.metrics.ObserveOCR("error", time.Since(start))
		h.logger.ErrorContext(ctx, "ocr recognition failed",
			"request_id", requestID,
			"engine", h.engine.Name(),
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "recognition failed"))
		return
	}

	h.metrics.ObserveOCR("ok", time.Since(start))
	// recognised text may hold PII; only its size is logged
	h.logger.InfoContext(ctx, "ocr recognized",
		"request_id", requestID,
		"engine", h.engine.Name(),
		"image_bytes", len(body),
		"text_chars", len([]rune(result.Text)),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) languages(r *http.Request) ([]string, error) {
	requested := strutil.SplitList(r.URL.Query().Get("lang"), ",")
	if requested == nil {
		return h.opts.Languages, nil
	}
	for _, lang := range requested {
		if !slices.Contains(h.opts.Languages, lang) {
			return nil, dErrors.New(dErrors.CodeBadRequest, "unsupported language: "+lang)
		}
	}
	return requested, nil
}
