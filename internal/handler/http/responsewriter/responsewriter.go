// Package responsewriter observes the status code and body size of API
// responses. The logging and metrics middleware share this wrapper so
// both report the same numbers for a request.
package responsewriter

import (
	"net/http"
)

// ResponseWriter records what was written to the underlying writer.
type ResponseWriter struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

// Wrap returns a recording wrapper around w. The status defaults to
// 200 because net/http sends 200 when a handler writes a body without
// calling WriteHeader.
func Wrap(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{
		ResponseWriter: w,
		status:         http.StatusOK,
	}
}

// WriteHeader records the first status code; later calls are ignored,
// matching net/http's own superfluous-WriteHeader handling.
func (w *ResponseWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.status = statusCode
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// StatusCode returns the status sent to the client.
func (w *ResponseWriter) StatusCode() int {
	return w.status
}

// BytesWritten returns the response body size in bytes.
func (w *ResponseWriter) BytesWritten() int {
	return w.bytes
}

// Unwrap exposes the underlying writer so http.ResponseController can
// reach Hijacker on the WebSocket upgrade path.
func (w *ResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
