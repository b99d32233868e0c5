package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"containerbase/internal/pdpa"
	"containerbase/pkg/requestcontext"
	"containerbase/pkg/testutil"
)

func newRouter() http.Handler {
	r := chi.NewRouter()
	New(slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return r
}

func TestHandleConsentWithoutGateIsInternalError(t *testing.T) {
	rec := testutil.DoRequest(newRouter(), testutil.NewRequest(t, http.MethodGet, "/v1/consent"))

	testutil.AssertStatus(t, rec, http.StatusInternalServerError)
	testutil.AssertErrorCode(t, rec, "internal_error")
}

func TestHandleConsentEchoesRecord(t *testing.T) {
	req := testutil.NewRequest(t, http.MethodGet, "/v1/consent")
	ctx := requestcontext.WithConsent(req.Context(), pdpa.ConsentRecord{UserID: "u1", ConsentedAt: "2025-11-01T10:00:00Z"})
	ctx = requestcontext.WithRequestID(ctx, "req-1")

	rec := testutil.DoRequest(newRouter(), req.WithContext(ctx))

	testutil.AssertStatusOK(t, rec)
	body := testutil.UnmarshalResponse[ConsentResponse](t, rec)
	if body.Consent.UserID != "u1" || body.RequestID != "req-1" {
		t.Fatalf("unexpected body %+v", body)
	}
	if body.MaskedEmail != nil || body.GPS != nil {
		t.Fatalf("expected no redacted fields, got %+v", body)
	}
}

func TestHealthEndpoints(t *testing.T) {
	router := newRouter()
	for _, path := range []string{"/healthz", "/readyz"} {
		rec := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, path))
		testutil.AssertStatusOK(t, rec)
		testutil.AssertJSONContains(t, rec, "status", "ok")
	}
}
