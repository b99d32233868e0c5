// Package tesseract implements ocr.Engine on top of the Tesseract C library.
package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"golang.org/x/sync/semaphore"

	"containerbase/internal/ocr"
	dErrors "containerbase/pkg/domain-errors"
)

// Engine recognises images with a fresh gosseract client per call. At most
// maxConcurrent recognitions run at once, counting ones whose caller has
// already given up.
type Engine struct {
	slots *semaphore.Weighted
	run   func(ocr.Input) (ocr.Result, error)
}

// New constructs a Tesseract-backed engine. maxConcurrent below 1 means 1.
func New(maxConcurrent int) *Engine {
	return newEngine(maxConcurrent, recognize)
}

func newEngine(maxConcurrent int, run func(ocr.Input) (ocr.Result, error)) *Engine {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Engine{slots: semaphore.NewWeighted(int64(maxConcurrent)), run: run}
}

func (e *Engine) Name() string { return "tesseract" }

// Recognize runs OCR on in.Image. Tesseract cannot be interrupted, so on
// cancellation the call returns ctx.Err() while the running recognition keeps
// its slot until it finishes.
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	if err := e.slots.Acquire(ctx, 1); err != nil {
		return ocr.Result{}, err
	}

	type outcome struct {
		res ocr.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		defer e.slots.Release(1)
		res, err := e.run(in)
		done <- outcome{res, err}
	}()

	select {
	case <-ctx.Done():
		return ocr.Result{}, ctx.Err()
	case o := <-done:
		return o.res, o.err
	}
}

func recognize(in ocr.Input) (ocr.Result, error) {
	c := gosseract.NewClient()
	defer c.Close()

	if err := c.SetImageFromBytes(in.Image); err != nil {
		return ocr.Result{}, dErrors.Wrap(err, dErrors.CodeBadRequest, "image could not be loaded")
	}
	if len(in.Languages) > 0 {
		if err := c.SetLanguage(in.Languages...); err != nil {
			return ocr.Result{}, dErrors.Wrap(err, dErrors.CodeBadRequest, "language could not be loaded")
		}
	}
	text, err := c.Text()
	if err != nil {
		return ocr.Result{}, fmt.Errorf("recognize text: %w", err)
	}
	return ocr.Result{
		Text:       strings.TrimSpace(text),
		Confidence: meanConfidence(c),
		Language:   firstLanguage(in.Languages),
	}, nil
}

func meanConfidence(c *gosseract.Client) float64 {
	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return 0
	}
	var sum float64
	for _, b := range boxes {
		sum += b.Confidence / 100.0
	}
	return sum / float64(len(boxes))
}

func firstLanguage(langs []string) string {
	if len(langs) == 0 {
		return ""
	}
	return langs[0]
}
