// Package observability provides Prometheus metrics and OpenTelemetry
// tracing support for the request pipeline.
package observability

import (
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector owns the Prometheus instruments recorded by the metrics
// middleware and by the middleware that integrate with it (retry, cache,
// circuit breaker).
type MetricsCollector struct {
	requestDuration *prometheus.HistogramVec
	activeRequests  *prometheus.GaugeVec
	retryAttempts   *prometheus.CounterVec
	cacheEvents     *prometheus.CounterVec
	circuitState    *prometheus.GaugeVec
}

// NewMetricsCollector creates a collector registered against the given
// registry, or the default Prometheus registry when nil.
func NewMetricsCollector(registry prometheus.Registerer) *MetricsCollector {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	return &MetricsCollector{
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fetchx_request_duration_seconds",
				Help:    "HTTP client request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0, 10.0},
			},
			[]string{"method", "status_code", "host"},
		),

		activeRequests: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fetchx_active_requests",
				Help: "Number of HTTP client requests currently in flight",
			},
			[]string{"host"},
		),

		retryAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fetchx_retry_attempts_total",
				Help: "Number of retry attempts performed",
			},
			[]string{"host"},
		),

		cacheEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fetchx_cache_events_total",
				Help: "Cache lookups by result",
			},
			[]string{"result"},
		),

		circuitState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fetchx_circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
			[]string{"host"},
		),
	}
}

// ObserveRequest records one completed request. Status 0 marks transport
// failures.
func (c *MetricsCollector) ObserveRequest(method, host string, status int, duration time.Duration) {
	c.requestDuration.WithLabelValues(method, strconv.Itoa(status), host).Observe(duration.Seconds())
}

// IncActiveRequests marks a request as in flight.
func (c *MetricsCollector) IncActiveRequests(host string) {
	c.activeRequests.WithLabelValues(host).Inc()
}

// DecActiveRequests marks a request as finished.
func (c *MetricsCollector) DecActiveRequests(host string) {
	c.activeRequests.WithLabelValues(host).Dec()
}

// RecordRetryAttempt counts one retry attempt against a host.
func (c *MetricsCollector) RecordRetryAttempt(host string) {
	c.retryAttempts.WithLabelValues(host).Inc()
}

// RecordCacheHit counts a served cache hit.
func (c *MetricsCollector) RecordCacheHit() {
	c.cacheEvents.WithLabelValues("hit").Inc()
}

// RecordCacheMiss counts a cache miss.
func (c *MetricsCollector) RecordCacheMiss() {
	c.cacheEvents.WithLabelValues("miss").Inc()
}

// SetCircuitState publishes a circuit's state for a host.
func (c *MetricsCollector) SetCircuitState(host string, state int) {
	c.circuitState.WithLabelValues(host).Set(float64(state))
}

// HostOf extracts the host from a raw URL for use as a metric label.
// Unparseable or hostless URLs map to "unknown" to keep cardinality sane.
func HostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Host
}
