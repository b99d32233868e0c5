package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"containerbase/internal/pdpa"
	"containerbase/internal/platform/logger"
	"containerbase/pkg/platform/httputil"
	"containerbase/pkg/platform/privacy"
	"containerbase/pkg/requestcontext"
)

// Request and response headers carrying PDPA metadata.
const (
	HeaderConsentStatus = "X-PDPA-Consent-Status"
	HeaderConsentAt     = "X-PDPA-Consent-At"
	HeaderUserID        = "X-User-Id"
	HeaderUserEmail     = "X-User-Email"
	HeaderGPSLat        = "X-GPS-Lat"
	HeaderGPSLon        = "X-GPS-Lon"
)

const (
	consentStatusActive = "active"
	defaultUserID       = "unknown"
	defaultConsentedAt  = "1970-01-01T00:00:00Z"
	revokedSentinel     = "revoked"
)

// Metrics is the subset of the metrics registry the gate reports to.
type Metrics interface {
	IncrementConsentRejections(reason string)
	IncrementRedactions(field string)
}

// ConsentGate enforces consent and redacts PII on every non-exempt request.
type ConsentGate struct {
	logger  *slog.Logger
	metrics Metrics
	exempt  map[string]struct{}
}

// NewConsentGate builds the gate. Requests whose path is in exemptPaths
// (health checks, metrics) pass through untouched.
func NewConsentGate(logger *slog.Logger, metrics Metrics, exemptPaths []string) *ConsentGate {
	exempt := make(map[string]struct{}, len(exemptPaths))
	for _, p := range exemptPaths {
		exempt[p] = struct{}{}
	}
	return &ConsentGate{logger: logger, metrics: metrics, exempt: exempt}
}

// Handler runs path check, consent check, redaction, response header
// attachment, then the wrapped handler.
func (g *ConsentGate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := g.exempt[r.URL.Path]; ok {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		record, err := pdpa.RequireConsent(ConsentFromHeaders(r.Header))
		if err != nil {
			reason := pdpa.RejectionReason(err)
			g.metrics.IncrementConsentRejections(reason)
			logger.LogEvent(ctx, g.logger, logger.Event{
				OpID:       "consent",
				Code:       logger.CodePDPADeny,
				DurationMS: time.Since(requestcontext.Now(ctx)).Milliseconds(),
				Message:    err.Error(),
			},
				"request_id", requestcontext.RequestID(ctx),
				"reason", reason,
				"path", r.URL.Path,
				"ip_prefix", privacy.AnonymizeIP(requestcontext.ClientIP(ctx)),
				"user_agent", requestcontext.UserAgent(ctx),
			)
			httputil.WriteError(w, err)
			return
		}

		redactions := RedactFromHeaders(r.Header)
		if redactions.MaskedEmail != nil {
			g.metrics.IncrementRedactions("email")
			w.Header().Set(HeaderUserEmail, *redactions.MaskedEmail)
		}
		if gps := redactions.RoundedGPS; gps != nil {
			g.metrics.IncrementRedactions("gps")
			w.Header().Set(HeaderGPSLat, pdpa.FormatCoordinate(gps.Latitude))
			w.Header().Set(HeaderGPSLon, pdpa.FormatCoordinate(gps.Longitude))
		}

		ctx = requestcontext.WithConsent(ctx, record)
		ctx = requestcontext.WithRedactions(ctx, redactions)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ConsentFromHeaders translates transport signals into a consent record
// candidate. A missing status header yields nil; any status other than
// "active" (case-insensitive) yields a revoked record. An absent user or
// timestamp header takes a default, but one sent empty stays empty and the
// record is rejected as malformed.
func ConsentFromHeaders(h http.Header) *pdpa.ConsentRecord {
	status := h.Get(HeaderConsentStatus)
	if status == "" {
		return nil
	}
	record := &pdpa.ConsentRecord{
		UserID:      headerOr(h, HeaderUserID, defaultUserID),
		ConsentedAt: headerOr(h, HeaderConsentAt, defaultConsentedAt),
	}
	if !strings.EqualFold(status, consentStatusActive) {
		record.RevokedAt = revokedSentinel
	}
	return record
}

// RedactFromHeaders masks the email header and rounds the GPS headers. GPS is
// only produced when both values parse as finite floats.
func RedactFromHeaders(h http.Header) requestcontext.Redactions {
	var out requestcontext.Redactions
	if email := h.Get(HeaderUserEmail); email != "" {
		masked := pdpa.MaskEmail(email)
		out.MaskedEmail = &masked
	}

	latRaw, lonRaw := h.Get(HeaderGPSLat), h.Get(HeaderGPSLon)
	if latRaw == "" || lonRaw == "" {
		return out
	}
	lat, latOK := parseFinite(latRaw)
	lon, lonOK := parseFinite(lonRaw)
	if latOK && lonOK {
		rLat, rLon := pdpa.RoundGPS(lat, lon)
		out.RoundedGPS = &requestcontext.Coordinate{Latitude: rLat, Longitude: rLon}
	}
	return out
}

func parseFinite(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func headerOr(h http.Header, key, def string) string {
	if vals, ok := h[textproto.CanonicalMIMEHeaderKey(key)]; ok && len(vals) > 0 {
		return vals[0]
	}
	return def
}
