package http

import (
	"net/http"
)

// InputValidation returns middleware that rejects requests with
// unreasonable URI lengths before any handler work happens.
// Body size is enforced separately by LimitRequestBody so the limit
// has a single, configurable source.
func InputValidation() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// パス長は2KBまで
			if len(r.URL.Path) > 2048 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestURITooLong)
				_, _ = w.Write([]byte(`{"error":"URI too long"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
