package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"containerbase/internal/pdpa"
	"containerbase/internal/platform/logger"
	"containerbase/pkg/requestcontext"
	"containerbase/pkg/testutil"
)

type recordingMetrics struct {
	rejections map[string]int
	redactions map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{rejections: map[string]int{}, redactions: map[string]int{}}
}

func (m *recordingMetrics) IncrementConsentRejections(reason string) { m.rejections[reason]++ }
func (m *recordingMetrics) IncrementRedactions(field string)         { m.redactions[field]++ }

type ConsentGateSuite struct {
	suite.Suite
	logs    *bytes.Buffer
	metrics *recordingMetrics
	gate    *ConsentGate
	reached bool
	ctx     requestcontextSnapshot
}

type requestcontextSnapshot struct {
	consent    pdpa.ConsentRecord
	hasConsent bool
	redactions requestcontext.Redactions
}

func TestConsentGateSuite(t *testing.T) {
	suite.Run(t, new(ConsentGateSuite))
}

func (s *ConsentGateSuite) SetupTest() {
	s.logs = &bytes.Buffer{}
	s.metrics = newRecordingMetrics()
	log := logger.New(logger.Options{Output: s.logs, Level: slog.LevelDebug})
	s.gate = NewConsentGate(log, s.metrics, []string{"/healthz", "/readyz"})
	s.reached = false
	s.ctx = requestcontextSnapshot{}
}

func (s *ConsentGateSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	h := s.gate.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.reached = true
		s.ctx.consent, s.ctx.hasConsent = requestcontext.Consent(r.Context())
		s.ctx.redactions = requestcontext.RedactionsFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	return testutil.DoRequest(h, req)
}

func (s *ConsentGateSuite) TestHealthPathsBypassGate() {
	for _, path := range []string{"/healthz", "/readyz"} {
		rec := s.serve(testutil.NewRequest(s.T(), http.MethodGet, path))

		s.Equal(http.StatusOK, rec.Code)
		s.True(s.reached)
		s.False(s.ctx.hasConsent)
	}
	s.Empty(s.metrics.rejections)
}

func (s *ConsentGateSuite) TestMissingConsentIsForbidden() {
	rec := s.serve(testutil.NewRequest(s.T(), http.MethodGet, "/v1/consent"))

	testutil.AssertStatus(s.T(), rec, http.StatusForbidden)
	s.False(s.reached)
	body := testutil.UnmarshalErrorResponse(s.T(), rec)
	s.Equal("consent_missing", body["error"])
	s.Equal("consent record is missing", body["error_description"])
	s.Equal(1, s.metrics.rejections["missing"])

	var line map[string]any
	s.Require().NoError(json.Unmarshal(s.logs.Bytes(), &line))
	s.Equal("PDPA_DENY", line["code"])
	s.Equal("missing", line["reason"])
}

func (s *ConsentGateSuite) TestDenyLogCarriesDurationAndUserAgent() {
	req := testutil.NewRequest(s.T(), http.MethodGet, "/v1/consent")
	ctx := requestcontext.WithTime(req.Context(), time.Now().Add(-250*time.Millisecond))
	ctx = requestcontext.WithClientMetadata(ctx, "203.0.113.7", "pdpa-test/1.0")

	rec := s.serve(req.WithContext(ctx))

	s.Equal(http.StatusForbidden, rec.Code)
	var line map[string]any
	s.Require().NoError(json.Unmarshal(s.logs.Bytes(), &line))
	s.Equal("pdpa-test/1.0", line["user_agent"])
	s.GreaterOrEqual(line["duration_ms"], float64(250))
	s.Equal("203.0.113.0/24", line["ip_prefix"])
}

func (s *ConsentGateSuite) TestEmptyUserIDIsMalformed() {
	req := testutil.NewRequest(s.T(), http.MethodGet, "/v1/consent")
	req.Header.Set(HeaderConsentStatus, "active")
	req.Header.Set(HeaderConsentAt, "2025-11-01T10:00:00Z")
	req.Header.Set(HeaderUserID, "")

	rec := s.serve(req)

	testutil.AssertStatus(s.T(), rec, http.StatusForbidden)
	s.False(s.reached)
	s.Equal(1, s.metrics.rejections["malformed"])
}

func (s *ConsentGateSuite) TestRevokedConsentIsForbidden() {
	req := testutil.WithConsentStatus(testutil.NewRequest(s.T(), http.MethodGet, "/v1/consent"), "revoked", "u1")

	rec := s.serve(req)

	testutil.AssertStatus(s.T(), rec, http.StatusForbidden)
	testutil.AssertErrorCode(s.T(), rec, "consent_missing")
	s.False(s.reached)
	s.Equal(1, s.metrics.rejections["revoked"])
}

func (s *ConsentGateSuite) TestDeniedRequestDoesNotLeakPII() {
	req := testutil.NewRequest(s.T(), http.MethodGet, "/v1/consent")
	testutil.WithEmail(req, "secret.person@example.com")

	rec := s.serve(req)

	s.Equal(http.StatusForbidden, rec.Code)
	s.Empty(rec.Header().Get(HeaderUserEmail))
	s.NotContains(s.logs.String(), "secret.person")
}

func (s *ConsentGateSuite) TestActiveConsentReachesHandler() {
	req := testutil.WithActiveConsent(testutil.NewRequest(s.T(), http.MethodGet, "/v1/consent"), "user-123")

	rec := s.serve(req)

	s.Equal(http.StatusOK, rec.Code)
	s.True(s.reached)
	s.True(s.ctx.hasConsent)
	s.Equal(pdpa.ConsentRecord{UserID: "user-123", ConsentedAt: "2025-11-01T10:00:00Z"}, s.ctx.consent)
	s.Empty(rec.Header().Get(HeaderUserEmail))
	s.Empty(rec.Header().Get(HeaderGPSLat))
}

func (s *ConsentGateSuite) TestConsentStatusIsCaseInsensitive() {
	req := testutil.WithConsentStatus(testutil.NewRequest(s.T(), http.MethodGet, "/v1/consent"), "ACTIVE", "u1")

	rec := s.serve(req)

	s.Equal(http.StatusOK, rec.Code)
}

func (s *ConsentGateSuite) TestRedactionsAttachedToResponse() {
	req := testutil.WithActiveConsent(testutil.NewRequest(s.T(), http.MethodGet, "/v1/consent"), "u1")
	testutil.WithEmail(req, "user@example.com")
	testutil.WithGPS(req, "13.756331", "100.501765")

	rec := s.serve(req)

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("***@example.com", rec.Header().Get(HeaderUserEmail))
	s.Equal("13.756", rec.Header().Get(HeaderGPSLat))
	s.Equal("100.502", rec.Header().Get(HeaderGPSLon))

	s.Require().NotNil(s.ctx.redactions.MaskedEmail)
	s.Equal("***@example.com", *s.ctx.redactions.MaskedEmail)
	s.Require().NotNil(s.ctx.redactions.RoundedGPS)
	s.Equal(13.756, s.ctx.redactions.RoundedGPS.Latitude)
	s.Equal(1, s.metrics.redactions["email"])
	s.Equal(1, s.metrics.redactions["gps"])
}

func (s *ConsentGateSuite) TestGPSIsZeroPadded() {
	req := testutil.WithActiveConsent(testutil.NewRequest(s.T(), http.MethodGet, "/v1/consent"), "u1")
	testutil.WithGPS(req, "13.75", "-0.1")

	rec := s.serve(req)

	s.Equal("13.750", rec.Header().Get(HeaderGPSLat))
	s.Equal("-0.100", rec.Header().Get(HeaderGPSLon))
}

func (s *ConsentGateSuite) TestUnparseableGPSIsOmitted() {
	for _, pair := range [][2]string{{"north", "100.5"}, {"13.7", ""}, {"NaN", "1"}, {"1", "+Inf"}} {
		s.SetupTest()
		req := testutil.WithActiveConsent(testutil.NewRequest(s.T(), http.MethodGet, "/v1/consent"), "u1")
		testutil.WithGPS(req, pair[0], pair[1])

		rec := s.serve(req)

		s.Equal(http.StatusOK, rec.Code, "pair %v", pair)
		s.Empty(rec.Header().Get(HeaderGPSLat), "pair %v", pair)
		s.Empty(rec.Header().Get(HeaderGPSLon), "pair %v", pair)
		s.Nil(s.ctx.redactions.RoundedGPS)
	}
}

func TestConsentFromHeaders(t *testing.T) {
	t.Run("absent status", func(t *testing.T) {
		h := http.Header{}
		h.Set(HeaderUserID, "u1")
		assert.Nil(t, ConsentFromHeaders(h))
	})

	t.Run("defaults for missing subject and timestamp", func(t *testing.T) {
		h := http.Header{}
		h.Set(HeaderConsentStatus, "active")

		record := ConsentFromHeaders(h)

		require.NotNil(t, record)
		assert.Equal(t, "unknown", record.UserID)
		assert.Equal(t, "1970-01-01T00:00:00Z", record.ConsentedAt)
		assert.True(t, record.IsActive())
	})

	t.Run("empty headers are kept, not defaulted", func(t *testing.T) {
		h := http.Header{}
		h.Set(HeaderConsentStatus, "active")
		h.Set(HeaderUserID, "")
		h.Set(HeaderConsentAt, "")

		record := ConsentFromHeaders(h)

		require.NotNil(t, record)
		assert.Empty(t, record.UserID)
		assert.Empty(t, record.ConsentedAt)
	})

	t.Run("non active status revokes", func(t *testing.T) {
		h := http.Header{}
		h.Set(HeaderConsentStatus, "withdrawn")

		record := ConsentFromHeaders(h)

		require.NotNil(t, record)
		assert.Equal(t, "revoked", record.RevokedAt)
	})
}

func TestRedactFromHeadersMalformedEmail(t *testing.T) {
	h := http.Header{}
	h.Set(HeaderUserEmail, "no-at-sign")

	r := RedactFromHeaders(h)

	require.NotNil(t, r.MaskedEmail)
	assert.Equal(t, "no-at-sign", *r.MaskedEmail)
}
