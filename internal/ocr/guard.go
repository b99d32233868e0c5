package ocr

import (
	"context"
	"errors"
	"log/slog"

	dErrors "containerbase/pkg/domain-errors"
	"containerbase/pkg/platform/circuit"
)

// Guard wraps engine with breaker. While the breaker is open, Recognize fails
// fast with CodeUnavailable. Caller cancellations and CodeBadRequest errors
// describe the request rather than the engine, so they are not counted.
func Guard(engine Engine, breaker *circuit.Breaker, log *slog.Logger) Engine {
	return &guarded{engine: engine, breaker: breaker, logger: log}
}

type guarded struct {
	engine  Engine
	breaker *circuit.Breaker
	logger  *slog.Logger
}

func (g *guarded) Name() string { return g.engine.Name() }

func (g *guarded) Recognize(ctx context.Context, in Input) (Result, error) {
	if !g.breaker.Allow() {
		return Result{}, dErrors.New(dErrors.CodeUnavailable, "recognition engine unavailable")
	}

	res, err := g.engine.Recognize(ctx, in)
	switch {
	case err == nil:
		if _, change := g.breaker.RecordSuccess(); change.Closed {
			g.logger.InfoContext(ctx, "ocr engine circuit closed", "breaker", g.breaker.Name())
		}
	case errors.Is(err, context.Canceled), dErrors.HasCode(err, dErrors.CodeBadRequest):
	default:
		if _, change := g.breaker.RecordFailure(); change.Opened {
			g.logger.WarnContext(ctx, "ocr engine circuit opened", "breaker", g.breaker.Name(), "error", err)
		}
	}
	return res, err
}
