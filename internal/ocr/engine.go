// Package ocr defines the recognition engine used by the OCR worker and the
// circuit breaker guard placed in front of it.
package ocr

import "context"

//go:generate mockgen -source=engine.go -destination=mocks/mock_engine.go -package=mocks

// Engine turns an image into text.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, in Input) (Result, error)
}

// Input is one image to recognise.
type Input struct {
	Image     []byte
	Languages []string
}

// Result is the recognised text with a mean word confidence in [0,1].
type Result struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Language   string  `json:"language,omitempty"`
}
