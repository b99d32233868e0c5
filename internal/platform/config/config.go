package config

import (
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"containerbase/internal/platform/logger"
	strutil "containerbase/pkg/platform/strings"
)

// HealthPaths are liveness and readiness endpoints that bypass the PDPA gate.
var HealthPaths = []string{"/healthz", "/readyz"}

// Common holds settings shared by both services.
type Common struct {
	ServiceName     string
	LogLevel        slog.Level
	ShutdownTimeout time.Duration
	MetricsEnabled  bool
}

// API captures configuration for the public API service.
type API struct {
	Common
	Addr string
	// GateExemptPaths skip consent enforcement: health checks plus /metrics.
	GateExemptPaths []string
}

// Worker captures configuration for the OCR worker.
type Worker struct {
	Common
	Addr              string
	MaxImageBytes     int64
	RecognizeTimeout  time.Duration
	HeartbeatInterval time.Duration
	Languages         []string
	// BreakerFailures consecutive engine failures open the circuit for
	// BreakerCooldown.
	BreakerFailures int
	BreakerCooldown time.Duration
	// MaxConcurrency caps Tesseract runs in flight, including timed-out ones.
	MaxConcurrency int
}

// APIFromEnv builds the API config from environment variables so main stays lean.
func APIFromEnv() API {
	exempt := append([]string{}, HealthPaths...)
	exempt = append(exempt, "/metrics")
	return API{
		Common:          commonFromEnv("container-base-api"),
		Addr:            getString("API_ADDR", ":8000"),
		GateExemptPaths: exempt,
	}
}

// WorkerFromEnv builds the OCR worker config from environment variables.
func WorkerFromEnv() Worker {
	return Worker{
		Common:            commonFromEnv("container-base-ocr"),
		Addr:              getString("OCR_ADDR", ":8080"),
		MaxImageBytes:     int64(getInt("OCR_MAX_IMAGE_MB", 10)) << 20,
		RecognizeTimeout:  time.Duration(getInt("OCR_TIMEOUT_MS", 30000)) * time.Millisecond,
		HeartbeatInterval: getDuration("OCR_HEARTBEAT_INTERVAL", time.Minute),
		Languages:         getList("OCR_LANGUAGES", []string{"eng"}),
		BreakerFailures:   getInt("OCR_BREAKER_FAILURES", 5),
		BreakerCooldown:   getDuration("OCR_BREAKER_COOLDOWN", 30*time.Second),
		MaxConcurrency:    getInt("OCR_MAX_CONCURRENCY", runtime.NumCPU()),
	}
}

func commonFromEnv(defaultName string) Common {
	return Common{
		ServiceName:     getString("SERVICE_NAME", defaultName),
		LogLevel:        logger.ParseLevel(os.Getenv("LOG_LEVEL")),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		MetricsEnabled:  getBool("METRICS_ENABLED", true),
	}
}

func getString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func getBool(key string, def bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return v
}

func getDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func getList(key string, def []string) []string {
	if out := strutil.SplitList(os.Getenv(key), ",+"); out != nil {
		return out
	}
	return def
}
