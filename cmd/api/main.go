package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"containerbase/internal/api"
	"containerbase/internal/platform/config"
	"containerbase/internal/platform/httpserver"
	"containerbase/internal/platform/logger"
	"containerbase/internal/platform/metrics"
	"containerbase/internal/platform/telemetry"
)

// main wires the API's dependencies and keeps the server lifecycle small.
// Policy lives in internal/pdpa; the gate middleware lives in internal/api.
func main() {
	cfg := config.APIFromEnv()
	log := logger.New(logger.Options{Service: cfg.ServiceName, Level: cfg.LogLevel})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, cfg.ServiceName, log)
	if err != nil {
		log.Error("telemetry init failed", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		log.Error("listen failed", "addr", cfg.Addr, "error", err)
		os.Exit(1)
	}

	srv := httpserver.New(cfg.Addr, api.NewRouter(cfg, log, m))
	logger.LogEvent(ctx, log, logger.Event{OpID: "startup", Code: logger.CodeStart, Message: "API service boot"}, "addr", ln.Addr().String())

	if err := httpserver.Serve(ctx, srv, ln, cfg.ShutdownTimeout); err != nil {
		log.Error("server error", "error", err)
	}
	logger.LogEvent(context.WithoutCancel(ctx), log, logger.Event{OpID: "shutdown", Code: logger.CodeStop, Message: "API service shutdown"})
}
