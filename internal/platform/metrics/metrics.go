package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the PDPA gates and the OCR worker.
type Metrics struct {
	ConsentRejections  *prometheus.CounterVec
	Redactions         *prometheus.CounterVec
	CredentialDenials  prometheus.Counter
	WorkerHeartbeat    prometheus.Gauge
	OCRRequests        *prometheus.CounterVec
	OCRDurationSeconds prometheus.Histogram

	gatherer prometheus.Gatherer
}

// New creates all collectors and registers them on reg. Passing a fresh
// prometheus.NewRegistry keeps tests isolated from the default registry.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ConsentRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pdpa_consent_rejections_total",
			Help: "Requests rejected by the consent gate, by reason",
		}, []string{"reason"}),
		Redactions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pdpa_redactions_total",
			Help: "Personal data fields redacted before propagation, by field",
		}, []string{"field"}),
		CredentialDenials: factory.NewCounter(prometheus.CounterOpts{
			Name: "pdpa_credential_denials_total",
			Help: "Worker startups refused by the credential isolation gate",
		}),
		WorkerHeartbeat: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ocr_worker_heartbeat_timestamp_seconds",
			Help: "Unix time of the last OCR worker loop heartbeat",
		}),
		OCRRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ocr_requests_total",
			Help: "OCR recognition requests, by outcome",
		}, []string{"outcome"}),
		OCRDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ocr_recognize_duration_seconds",
			Help:    "Time spent in the OCR engine per request",
			Buckets: prometheus.DefBuckets,
		}),
		gatherer: reg,
	}
}

// IncrementConsentRejections counts one consent gate rejection.
func (m *Metrics) IncrementConsentRejections(reason string) {
	m.ConsentRejections.WithLabelValues(reason).Inc()
}

// IncrementRedactions counts one redacted field.
func (m *Metrics) IncrementRedactions(field string) {
	m.Redactions.WithLabelValues(field).Inc()
}

func (m *Metrics) IncrementCredentialDenials() {
	m.CredentialDenials.Inc()
}

func (m *Metrics) SetHeartbeat(t time.Time) {
	m.WorkerHeartbeat.Set(float64(t.Unix()))
}

func (m *Metrics) ObserveOCR(outcome string, d time.Duration) {
	m.OCRRequests.WithLabelValues(outcome).Inc()
	m.OCRDurationSeconds.Observe(d.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
