package fetchx

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/seb7887/fetchx/observability"
)

// TracingMiddleware wraps each request in an OpenTelemetry client span and
// injects the trace context into the outgoing headers so downstream
// services can join the trace.
type TracingMiddleware struct {
	instrumenter *observability.Instrumenter
}

// NewTracingMiddleware creates a tracing middleware. A nil provider falls
// back to the global tracer provider.
func NewTracingMiddleware(provider trace.TracerProvider) *TracingMiddleware {
	return &TracingMiddleware{
		instrumenter: observability.NewInstrumenter(provider),
	}
}

// Instrumenter returns the underlying instrumenter for adding custom span
// attributes and events.
func (m *TracingMiddleware) Instrumenter() *observability.Instrumenter {
	return m.instrumenter
}

// Execute implements the Middleware interface.
func (m *TracingMiddleware) Execute(ctx context.Context, req *Request, next Next) (*Response, error) {
	r := req.Clone()
	ctx, span := m.instrumenter.StartSpan(ctx, r.Method, r.URL, r.Header)

	resp, err := next(ctx, r)

	status := 0
	if resp != nil {
		status = resp.Status
	}
	m.instrumenter.EndSpan(span, status, err)

	return resp, err
}
