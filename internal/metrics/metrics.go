package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors exported by the service. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	detailAttempts   *prometheus.CounterVec
	detailFallbacks  prometheus.Counter
	batches          prometheus.Counter
	resolutions      *prometheus.CounterVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		upstreamRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "accurate_upstream_requests_total",
			Help: "Upstream Accurate API calls by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		upstreamLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "accurate_upstream_request_duration_seconds",
			Help:    "Upstream Accurate API call latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		detailAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "detail_fetch_attempts_total",
			Help: "Detail fetch attempts by outcome.",
		}, []string{"outcome"}),
		detailFallbacks: f.NewCounter(prometheus.CounterOpts{
			Name: "detail_fetch_fallbacks_total",
			Help: "Records resolved to the fetch-failed sentinel after exhausting retries.",
		}),
		batches: f.NewCounter(prometheus.CounterOpts{
			Name: "detail_batches_total",
			Help: "Detail fetch batches started.",
		}),
		resolutions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tax_resolutions_total",
			Help: "Resolved records by tax category.",
		}, []string{"category"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveUpstream(endpoint, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	m.upstreamLatency.WithLabelValues(endpoint).Observe(d.Seconds())
}

func (m *Metrics) DetailAttempt(outcome string) {
	if m == nil {
		return
	}
	m.detailAttempts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) DetailFallback() {
	if m == nil {
		return
	}
	m.detailFallbacks.Inc()
}

func (m *Metrics) BatchStarted() {
	if m == nil {
		return
	}
	m.batches.Inc()
}

func (m *Metrics) Resolved(category string) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(category).Inc()
}
