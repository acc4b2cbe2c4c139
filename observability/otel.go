package observability

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/seb7887/fetchx"

// Instrumenter creates OpenTelemetry client spans for pipeline requests and
// injects the trace context into outgoing headers.
type Instrumenter struct {
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
}

// NewInstrumenter creates an instrumenter from the given tracer provider,
// falling back to the global provider when nil.
func NewInstrumenter(provider trace.TracerProvider) *Instrumenter {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}

	return &Instrumenter{
		tracer:     provider.Tracer(instrumentationName),
		propagator: otel.GetTextMapPropagator(),
	}
}

// StartSpan opens a client span for the request and injects the trace
// context into header, which must be the mutable header map of an outgoing
// request.
func (i *Instrumenter) StartSpan(ctx context.Context, method, rawURL string, header http.Header) (context.Context, trace.Span) {
	ctx, span := i.tracer.Start(ctx, fmt.Sprintf("HTTP %s", method),
		trace.WithSpanKind(trace.SpanKindClient),
	)

	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.url", rawURL),
	)
	if u, err := url.Parse(rawURL); err == nil {
		span.SetAttributes(
			attribute.String("http.scheme", u.Scheme),
			attribute.String("http.host", u.Host),
			attribute.String("http.target", u.Path),
		)
	}

	i.propagator.Inject(ctx, propagation.HeaderCarrier(header))

	return ctx, span
}

// EndSpan completes the span. Status 0 marks transport failures; statuses
// of 400 and above mark the span as errored.
func (i *Instrumenter) EndSpan(span trace.Span, status int, err error) {
	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	case status == 0:
		span.SetStatus(codes.Error, "transport failure")
	case status >= 400:
		span.SetAttributes(attribute.Int("http.status_code", status))
		span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", status))
	default:
		span.SetAttributes(attribute.Int("http.status_code", status))
		span.SetStatus(codes.Ok, "")
	}

	span.End()
}

// AddEvent records a named event with attributes on the span, used by
// middleware to note retries and circuit transitions.
func (i *Instrumenter) AddEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
