// Package metrics provides the centralized Prometheus metrics registry.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	AnalysesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "propscout",
		Name:      "analyses_total",
		Help:      "Total number of analyses performed, by kind (player, matchup)",
	}, []string{"kind"})
	AnalysisErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "propscout",
		Name:      "analysis_errors_total",
		Help:      "Total number of failed analyses, by kind",
	}, []string{"kind"})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "propscout",
		Name:      "cache_hits_total",
		Help:      "Total number of cache hits on upstream data lookups",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "propscout",
		Name:      "cache_misses_total",
		Help:      "Total number of cache misses on upstream data lookups",
	})
	ProviderRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "propscout",
		Name:      "provider_requests_total",
		Help:      "Total number of upstream stats API requests, by endpoint",
	}, []string{"endpoint"})
	OddsFetchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "propscout",
		Name:      "odds_fetches_total",
		Help:      "Total number of bookmaker odds scrapes attempted",
	})
)

// Gauge metrics
var (
	WebsocketClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "propscout",
		Name:      "websocket_clients",
		Help:      "Number of currently connected WebSocket subscribers",
	})
)

// Histogram metrics
var (
	AnalysisDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "propscout",
		Name:      "analysis_duration_seconds",
		Help:      "End to end analysis duration in seconds, by kind",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind"})
	ProviderRequestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "propscout",
		Name:      "provider_request_duration_seconds",
		Help:      "Upstream stats API request duration in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(AnalysesTotal)
		registry.MustRegister(AnalysisErrorsTotal)
		registry.MustRegister(CacheHitsTotal)
		registry.MustRegister(CacheMissesTotal)
		registry.MustRegister(ProviderRequestsTotal)
		registry.MustRegister(OddsFetchesTotal)

		registry.MustRegister(WebsocketClients)

		registry.MustRegister(AnalysisDuration)
		registry.MustRegister(ProviderRequestDuration)
	})
	return registry
}

// Handler returns an http.Handler that serves the registry in the
// Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(InitRegistry(), promhttp.HandlerOpts{})
}
