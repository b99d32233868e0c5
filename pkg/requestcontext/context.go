// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// Middleware sets these values; handlers and services read them. Keeping the
// package free of net/http lets non-HTTP code (the worker loop, tests) inject
// values directly.
//
//	requestID := requestcontext.RequestID(ctx)
//	record, ok := requestcontext.Consent(ctx)
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	"containerbase/internal/pdpa"
)

// Context key types (unexported for encapsulation).
type (
	requestIDKey   struct{}
	requestTimeKey struct{}
	clientIPKey    struct{}
	userAgentKey   struct{}
	consentKey     struct{}
	redactionsKey  struct{}
)

// -----------------------------------------------------------------------------
// Request metadata
// -----------------------------------------------------------------------------

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() when unset (worker loop, CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}

// -----------------------------------------------------------------------------
// Client metadata (IP, User-Agent)
// -----------------------------------------------------------------------------

// ClientIP retrieves the client IP address from the context.
func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey{}).(string); ok {
		return ip
	}
	return ""
}

// UserAgent retrieves the User-Agent from the context.
func UserAgent(ctx context.Context) string {
	if ua, ok := ctx.Value(userAgentKey{}).(string); ok {
		return ua
	}
	return ""
}

// WithClientMetadata injects client IP and User-Agent into a context.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey{}, clientIP)
	ctx = context.WithValue(ctx, userAgentKey{}, userAgent)
	return ctx
}

// -----------------------------------------------------------------------------
// PDPA state
// -----------------------------------------------------------------------------

// Consent returns the consent record accepted for this request.
func Consent(ctx context.Context) (pdpa.ConsentRecord, bool) {
	record, ok := ctx.Value(consentKey{}).(pdpa.ConsentRecord)
	return record, ok
}

// WithConsent attaches an accepted consent record.
func WithConsent(ctx context.Context, record pdpa.ConsentRecord) context.Context {
	return context.WithValue(ctx, consentKey{}, record)
}

// Coordinate is a latitude/longitude pair already rounded by pdpa.RoundGPS.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Redactions carries the redacted forms of request PII. Nil fields mean the
// input was absent or unusable.
type Redactions struct {
	MaskedEmail *string
	RoundedGPS  *Coordinate
}

// RedactionsFrom returns the redactions recorded for this request.
func RedactionsFrom(ctx context.Context) Redactions {
	if r, ok := ctx.Value(redactionsKey{}).(Redactions); ok {
		return r
	}
	return Redactions{}
}

// WithRedactions records the redacted forms of request PII.
func WithRedactions(ctx context.Context, r Redactions) context.Context {
	return context.WithValue(ctx, redactionsKey{}, r)
}
