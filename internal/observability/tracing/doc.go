// Package tracing provides OpenTelemetry instrumentation for the
// announcements API.
//
// Middleware wraps the HTTP stack: it extracts W3C trace context from
// incoming requests, opens a server span per request, and echoes the
// trace ID in the X-Trace-Id response header. StartSpan covers work
// that happens off the request path, such as webhook delivery.
//
// Span export is left to the runtime environment; without a configured
// SDK the spans are no-ops.
package tracing
