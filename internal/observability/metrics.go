package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "url_analyzer"

// Fetch attempt outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeShort   = "short_content"
)

// Metrics holds the analyzer's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	FetchAttempts       *prometheus.CounterVec
	PagesClassified     *prometheus.CounterVec
	AnalysisDuration    *prometheus.HistogramVec
	DiscoveredURLs      *prometheus.HistogramVec
	HTTPRequests        *prometheus.CounterVec
	RateLimitedRequests prometheus.Counter
}

// NewMetrics registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		FetchAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_attempts_total",
			Help:      "Fetch attempts by relay and outcome",
		}, []string{"relay", "outcome"}),
		PagesClassified: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_classified_total",
			Help:      "Site pages classified by page type and confidence",
		}, []string{"page_type", "confidence"}),
		AnalysisDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time to complete an analysis, by operation",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"operation"}),
		DiscoveredURLs: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "discovered_urls",
			Help:      "Candidate URLs found per site, by discovery source",
			Buckets:   []float64{1, 5, 10, 20, 50, 100, 200},
		}, []string{"source"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "API requests by route and status code",
		}, []string{"route", "status"}),
		RateLimitedRequests: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_rate_limited_total",
			Help:      "API requests rejected by the rate limiter",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry, mainly for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// ObserveFetch counts one fetch attempt.
func (m *Metrics) ObserveFetch(relay, outcome string) {
	if m == nil {
		return
	}
	m.FetchAttempts.WithLabelValues(relay, outcome).Inc()
}

// ObserveClassification counts one classified site page.
func (m *Metrics) ObserveClassification(pageType, confidence string) {
	if m == nil {
		return
	}
	m.PagesClassified.WithLabelValues(pageType, confidence).Inc()
}

// ObserveDuration records how long an operation took since start.
func (m *Metrics) ObserveDuration(operation string, start time.Time) {
	if m == nil {
		return
	}
	m.AnalysisDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// ObserveDiscovery records how many candidate URLs a discovery source produced.
func (m *Metrics) ObserveDiscovery(source string, count int) {
	if m == nil {
		return
	}
	m.DiscoveredURLs.WithLabelValues(source).Observe(float64(count))
}

// ObserveRequest counts one API request.
func (m *Metrics) ObserveRequest(route, status string) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, status).Inc()
}

// ObserveRateLimited counts one rejected API request.
func (m *Metrics) ObserveRateLimited() {
	if m == nil {
		return
	}
	m.RateLimitedRequests.Inc()
}
