// Package requestid tags every API request with an ID so that log lines
// for one announcement operation can be correlated across middleware,
// handlers and the usecase layer.
package requestid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader carries the ID on requests and responses. Clients
// (and the reverse proxy in front of the portal) may supply their own.
const RequestIDHeader = "X-Request-ID"

type contextKey struct{}

// FromContext returns the request ID, or "" when the request did not
// pass through Middleware.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(contextKey{}).(string); ok {
		return id
	}
	return ""
}

// WithRequestID stores the ID in the context. Exposed for tests and
// for code running outside the HTTP stack (webhook delivery, cron).
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// Middleware propagates an incoming X-Request-ID or generates a UUID v4,
// echoes it on the response, and stores it in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}

		// クライアント側でも追跡できるようレスポンスにも載せる
		w.Header().Set(RequestIDHeader, id)

		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
	})
}
