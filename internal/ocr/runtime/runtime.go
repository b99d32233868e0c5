// Package runtime boots the OCR worker: credential isolation first, then the
// HTTP server and background loop under one errgroup.
package runtime

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"containerbase/internal/ocr"
	"containerbase/internal/ocr/handler"
	"containerbase/internal/ocr/worker"
	"containerbase/internal/pdpa"
	"containerbase/internal/platform/config"
	"containerbase/internal/platform/httpserver"
	"containerbase/internal/platform/logger"
	"containerbase/internal/platform/metrics"
	"containerbase/internal/platform/telemetry"
	dErrors "containerbase/pkg/domain-errors"
	"containerbase/pkg/platform/circuit"
	"containerbase/pkg/platform/middleware/metadata"
	"containerbase/pkg/platform/middleware/requestid"
	"containerbase/pkg/platform/middleware/requesttime"
)

// Runtime is a worker that passed the credential gate. Its CredentialSet is
// the only credential state the process keeps.
type Runtime struct {
	cfg         config.Worker
	credentials pdpa.CredentialSet
	logger      *slog.Logger
	metrics     *metrics.Metrics
	engine      ocr.Engine
	ready       atomic.Bool
}

// Bootstrap validates env with the credential isolation gate. On violation it
// logs a PDPA_DENY event and returns a CodeServiceRoleForbidden error; the
// caller must exit without binding a socket.
func Bootstrap(ctx context.Context, env map[string]string, cfg config.Worker, log *slog.Logger, m *metrics.Metrics, engine ocr.Engine) (*Runtime, error) {
	creds, err := pdpa.ValidateCredentials(env)
	if err != nil {
		m.IncrementCredentialDenials()
		logger.LogEvent(ctx, log, logger.Event{
			OpID:    "startup",
			Code:    logger.CodePDPADeny,
			Message: err.Error(),
		})
		return nil, dErrors.Wrap(err, dErrors.CodeServiceRoleForbidden,
			"OCR worker refused to start due to credential violation")
	}
	log.InfoContext(ctx, "credential isolation passed", "keys", creds.Keys())

	breaker := circuit.New("ocr-engine",
		circuit.WithFailureThreshold(cfg.BreakerFailures),
		circuit.WithCooldown(cfg.BreakerCooldown),
	)
	guarded := ocr.Guard(engine, breaker, log)

	return &Runtime{
		cfg:         cfg,
		credentials: creds,
		logger:      log,
		metrics:     m,
		engine:      guarded,
	}, nil
}

// Credentials returns the sanitised credential set.
func (rt *Runtime) Credentials() pdpa.CredentialSet {
	return rt.credentials
}

// Ready reports whether the worker is serving and not shutting down.
func (rt *Runtime) Ready() bool {
	return rt.ready.Load()
}

// Handler builds the worker's HTTP handler.
func (rt *Runtime) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(telemetry.HTTPMiddleware(rt.cfg.ServiceName))
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)

	handler.New(rt.engine, rt, rt.logger, rt.metrics, handler.Options{
		MaxImageBytes: rt.cfg.MaxImageBytes,
		Timeout:       rt.cfg.RecognizeTimeout,
		Languages:     rt.cfg.Languages,
	}).Register(r)
	if rt.cfg.MetricsEnabled {
		r.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}
	return r
}

// Run serves on ln and runs the heartbeat loop until ctx is cancelled or
// either fails. Readiness drops as soon as shutdown begins.
func (rt *Runtime) Run(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)
	srv := httpserver.New(ln.Addr().String(), rt.Handler())

	rt.ready.Store(true)
	logger.LogEvent(ctx, rt.logger, logger.Event{OpID: "startup", Code: logger.CodeStart, Message: "OCR worker service boot"},
		"addr", ln.Addr().String(),
	)

	g.Go(func() error {
		<-gctx.Done()
		rt.ready.Store(false)
		return nil
	})
	g.Go(func() error {
		return worker.New(rt.cfg.HeartbeatInterval, rt.logger, rt.metrics).Run(gctx)
	})
	g.Go(func() error {
		return httpserver.Serve(gctx, srv, ln, rt.cfg.ShutdownTimeout)
	})

	err := g.Wait()
	logger.LogEvent(context.WithoutCancel(ctx), rt.logger, logger.Event{OpID: "shutdown", Code: logger.CodeStop, Message: "OCR worker service shutdown"})
	return err
}
