package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the comic metadata service.
// Metrics are organized by subsystem: catalog requests, rate limiting and
// searches. All collectors are registered via promauto with the default
// Prometheus registry.
type Metrics struct {
	// CatalogRequestsTotal counts catalog API requests, labeled by endpoint tag.
	CatalogRequestsTotal *prometheus.CounterVec

	// CatalogRequestsFailed counts failed catalog API requests, labeled by endpoint and error type.
	CatalogRequestsFailed *prometheus.CounterVec

	// CatalogRequestDuration observes catalog request duration in seconds, labeled by endpoint.
	CatalogRequestDuration *prometheus.HistogramVec

	// RateLimitRejections counts acquisitions refused because an endpoint's rolling quota was exhausted.
	RateLimitRejections *prometheus.CounterVec

	// PacingWait observes how long callers were held by global request pacing, in seconds.
	PacingWait *prometheus.HistogramVec

	// QuotaRemaining reports the remaining rolling quota per endpoint after the last acquisition.
	QuotaRemaining *prometheus.GaugeVec

	// SearchesTotal counts searches, labeled by the strategy that produced the result.
	SearchesTotal *prometheus.CounterVec

	// CandidatesPerSearch observes the number of candidates returned per search, labeled by strategy.
	CandidatesPerSearch *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The namespace is used as a prefix for all metric names.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		// Catalog
		CatalogRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_requests_total",
			Help:      "Total number of requests to the comic catalog by endpoint",
		}, []string{"endpoint"}),
		CatalogRequestsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_requests_failed_total",
			Help:      "Total number of failed requests to the comic catalog",
		}, []string{"endpoint", "error_type"}),
		CatalogRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_request_duration_seconds",
			Help:      "Duration of requests to the comic catalog in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"endpoint"}),

		// Rate limiting
		RateLimitRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_rejections_total",
			Help:      "Total number of requests refused because the endpoint quota was exhausted",
		}, []string{"endpoint"}),
		PacingWait: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rate_limit_pacing_wait_seconds",
			Help:      "Time spent waiting for global request pacing in seconds",
			Buckets:   []float64{0, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"endpoint"}),
		QuotaRemaining: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rate_limit_quota_remaining",
			Help:      "Remaining requests in the rolling quota window by endpoint",
		}, []string{"endpoint"}),

		// Searches
		SearchesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Total number of searches by result strategy",
		}, []string{"strategy"}),
		CandidatesPerSearch: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "candidates_per_search",
			Help:      "Number of candidates returned per search by strategy",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}, []string{"strategy"}),
	}
}

// RecordCatalogRequest records a completed request to a catalog endpoint.
func (m *Metrics) RecordCatalogRequest(endpoint string, durationSeconds float64) {
	m.CatalogRequestsTotal.WithLabelValues(endpoint).Inc()
	m.CatalogRequestDuration.WithLabelValues(endpoint).Observe(durationSeconds)
}

// RecordCatalogRequestFailed records a failed request to a catalog endpoint.
func (m *Metrics) RecordCatalogRequestFailed(endpoint, errorType string) {
	m.CatalogRequestsFailed.WithLabelValues(endpoint, errorType).Inc()
}

// RecordRateLimitRejected records an acquisition refused for quota.
func (m *Metrics) RecordRateLimitRejected(endpoint string) {
	m.RateLimitRejections.WithLabelValues(endpoint).Inc()
}

// RecordPacingWait records time spent in the global pacing wait.
func (m *Metrics) RecordPacingWait(endpoint string, waitSeconds float64) {
	m.PacingWait.WithLabelValues(endpoint).Observe(waitSeconds)
}

// RecordQuotaRemaining sets the remaining quota gauge for an endpoint.
func (m *Metrics) RecordQuotaRemaining(endpoint string, remaining int) {
	m.QuotaRemaining.WithLabelValues(endpoint).Set(float64(remaining))
}

// RecordSearch records a finished search and how many candidates it returned.
func (m *Metrics) RecordSearch(strategy string, candidates int) {
	m.SearchesTotal.WithLabelValues(strategy).Inc()
	m.CandidatesPerSearch.WithLabelValues(strategy).Observe(float64(candidates))
}
