package fetchx

import (
	"context"
	"time"

	"github.com/seb7887/fetchx/observability"
)

// MetricsMiddleware records Prometheus metrics for every request flowing
// through the pipeline: duration by method/status/host and the number of
// requests currently in flight.
type MetricsMiddleware struct {
	collector *observability.MetricsCollector
}

// NewMetricsMiddleware creates a metrics middleware with the given
// collector.
func NewMetricsMiddleware(collector *observability.MetricsCollector) *MetricsMiddleware {
	return &MetricsMiddleware{
		collector: collector,
	}
}

// Collector returns the underlying collector so other middleware (retry,
// cache, circuit breaker) can record their specific metrics into the same
// registry.
func (m *MetricsMiddleware) Collector() *observability.MetricsCollector {
	return m.collector
}

// Execute implements the Middleware interface.
func (m *MetricsMiddleware) Execute(ctx context.Context, req *Request, next Next) (*Response, error) {
	host := observability.HostOf(req.URL)

	m.collector.IncActiveRequests(host)
	defer m.collector.DecActiveRequests(host)

	start := time.Now()
	resp, err := next(ctx, req)
	duration := time.Since(start)

	status := 0
	if resp != nil {
		status = resp.Status
	}
	m.collector.ObserveRequest(req.Method, host, status, duration)

	return resp, err
}
