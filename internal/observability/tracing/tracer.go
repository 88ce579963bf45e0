package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracer is shared by the HTTP middleware and background work
// (webhook delivery) so all spans appear under one instrumentation name.
var tracer = otel.Tracer("city-announcements")

// StartSpan starts a span under the service tracer. Use for work that
// runs outside the HTTP middleware, which creates its own spans.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, opts...)
}
