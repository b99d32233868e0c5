package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"containerbase/internal/ocr/runtime"
	"containerbase/internal/ocr/tesseract"
	"containerbase/internal/pdpa"
	"containerbase/internal/platform/config"
	"containerbase/internal/platform/logger"
	"containerbase/internal/platform/metrics"
	"containerbase/internal/platform/telemetry"
)

// main runs the credential isolation gate before anything else. A violation
// exits with status 1 before any socket is bound.
func main() {
	cfg := config.WorkerFromEnv()
	log := logger.New(logger.Options{Service: cfg.ServiceName, Level: cfg.LogLevel})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	rt, err := runtime.Bootstrap(ctx, pdpa.EnvironFromOS(os.Environ()), cfg, log, m, tesseract.New(cfg.MaxConcurrency))
	if err != nil {
		log.Error("startup aborted", "error", err)
		os.Exit(1)
	}

	shutdownTracing, err := telemetry.Init(ctx, cfg.ServiceName, log)
	if err != nil {
		log.Error("telemetry init failed", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		log.Error("listen failed", "addr", cfg.Addr, "error", err)
		os.Exit(1)
	}

	if err := rt.Run(ctx, ln); err != nil {
		log.Error("worker error", "error", err)
		os.Exit(1)
	}
}
