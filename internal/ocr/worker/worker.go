// Package worker runs the OCR worker's background loop.
package worker

import (
	"context"
	"log/slog"
	"time"

	"containerbase/internal/platform/logger"
)

// HeartbeatRecorder receives the time of each heartbeat.
type HeartbeatRecorder interface {
	SetHeartbeat(t time.Time)
}

// Loop emits a heartbeat every interval until its context is cancelled.
type Loop struct {
	interval time.Duration
	logger   *slog.Logger
	recorder HeartbeatRecorder
	now      func() time.Time
}

// New constructs the background loop.
func New(interval time.Duration, logger *slog.Logger, recorder HeartbeatRecorder) *Loop {
	return &Loop{
		interval: interval,
		logger:   logger,
		recorder: recorder,
		now:      time.Now,
	}
}

// Run blocks until ctx is done. It always returns nil so that a normal
// shutdown does not fail the surrounding errgroup.
func (l *Loop) Run(ctx context.Context) error {
	logger.LogEvent(ctx, l.logger, logger.Event{OpID: "worker", Code: logger.CodeStart, Message: "OCR worker loop started"})
	defer logger.LogEvent(context.WithoutCancel(ctx), l.logger, logger.Event{OpID: "worker", Code: logger.CodeStop, Message: "OCR worker loop stopped"})

	l.recorder.SetHeartbeat(l.now())

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			l.recorder.SetHeartbeat(l.now())
			logger.LogEvent(ctx, l.logger, logger.Event{OpID: "heartbeat", Code: logger.CodeHeartbeat, Message: "OCR worker heartbeat"})
		}
	}
}
