// Package metrics collects and exposes Prometheus metrics for the service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch outcome labels.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
)

// Metrics holds the service counters. All record methods are nil-safe so
// callers can run without metrics wired (tests, one-shot CLI).
type Metrics struct {
	registry *prometheus.Registry

	sourceFetches     *prometheus.CounterVec
	sourceArticles    *prometheus.CounterVec
	rateLimitRejected prometheus.Counter
	aggregateDuration prometheus.Histogram
}

// New creates a Metrics with its own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		sourceFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ainews_source_fetch_total",
			Help: "Source fetch attempts by source and outcome.",
		}, []string{"source", "outcome"}),
		sourceArticles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ainews_source_articles_total",
			Help: "Articles returned by each source before dedup.",
		}, []string{"source"}),
		rateLimitRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ainews_rate_limit_rejected_total",
			Help: "Requests rejected by the rate limiter.",
		}),
		aggregateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ainews_aggregate_duration_seconds",
			Help:    "Duration of a full aggregation pass.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	m.registry.MustRegister(
		m.sourceFetches,
		m.sourceArticles,
		m.rateLimitRejected,
		m.aggregateDuration,
	)

	return m
}

// Handler returns the HTTP handler serving this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordFetch records one source fetch attempt and its article yield.
func (m *Metrics) RecordFetch(source, outcome string, articles int) {
	if m == nil {
		return
	}
	m.sourceFetches.WithLabelValues(source, outcome).Inc()
	if articles > 0 {
		m.sourceArticles.WithLabelValues(source).Add(float64(articles))
	}
}

// RecordRateLimited records a 429 rejection.
func (m *Metrics) RecordRateLimited() {
	if m == nil {
		return
	}
	m.rateLimitRejected.Inc()
}

// RecordAggregateDuration records how long one aggregation pass took.
func (m *Metrics) RecordAggregateDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.aggregateDuration.Observe(d.Seconds())
}
