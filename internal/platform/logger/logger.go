package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Event codes emitted by the services.
const (
	CodeStart     = "START"
	CodeStop      = "STOP"
	CodeHealth    = "HEALTH"
	CodeReady     = "READY"
	CodeHeartbeat = "HEARTBEAT"
	CodePDPADeny  = "PDPA_DENY"
)

// Options configures the process logger.
type Options struct {
	Service string
	Level   slog.Level
	Output  io.Writer
}

// New builds the JSON logger for a process. It is constructed once in main and
// passed down; nothing in the codebase reads a global logger.
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level:       opts.Level,
		ReplaceAttr: replaceAttr,
	})
	log := slog.New(handler)
	if opts.Service != "" {
		log = log.With("service", opts.Service)
	}
	return log
}

// replaceAttr renames the time key to "ts" in RFC 3339 UTC.
func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey {
		return slog.String("ts", a.Value.Time().UTC().Format(time.RFC3339Nano))
	}
	return a
}

// ParseLevel maps LOG_LEVEL style strings to slog levels, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Event is a lifecycle or policy log line with the fixed
// {ts, opId, code, duration_ms, message} shape.
type Event struct {
	OpID       string
	Code       string
	DurationMS int64
	Message    string
}

// LogEvent writes ev at info level, or warn for PDPA denials. Extra attrs are
// appended after the fixed fields.
func LogEvent(ctx context.Context, log *slog.Logger, ev Event, attrs ...any) {
	level := slog.LevelInfo
	if ev.Code == CodePDPADeny {
		level = slog.LevelWarn
	}
	args := make([]any, 0, 6+len(attrs))
	args = append(args,
		"opId", ev.OpID,
		"code", ev.Code,
		"duration_ms", ev.DurationMS,
	)
	args = append(args, attrs...)
	log.Log(ctx, level, ev.Message, args...)
}
