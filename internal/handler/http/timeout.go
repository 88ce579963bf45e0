package http

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Timeout returns middleware that bounds a request's processing time.
// The handler runs in its own goroutine with a deadline on the request
// context; if the deadline expires first, the client gets 504 and any
// late writes from the handler are discarded.
//
// WebSocketのようにコネクションを掴み続けるハンドラには使えない
// （/ws はこのミドルウェアを通さないこと）。
func Timeout(duration time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), duration)
			defer cancel()

			gw := &guardedWriter{inner: w}
			done := make(chan struct{})

			go func() {
				defer close(done)
				next.ServeHTTP(gw, r.WithContext(ctx))
			}()

			select {
			case <-done:
			case <-ctx.Done():
				gw.expire()
			}
		})
	}
}

// guardedWriter serializes handler writes against the 504 the
// middleware sends on expiry. Whichever side writes first wins and
// the other side's writes are dropped.
type guardedWriter struct {
	inner http.ResponseWriter

	mu      sync.Mutex
	started bool // レスポンス送信開始済み
	expired bool
}

func (g *guardedWriter) Header() http.Header {
	return g.inner.Header()
}

func (g *guardedWriter) WriteHeader(statusCode int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.expired || g.started {
		return
	}
	g.started = true
	g.inner.WriteHeader(statusCode)
}

func (g *guardedWriter) Write(p []byte) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.expired {
		return 0, http.ErrHandlerTimeout
	}
	if !g.started {
		g.started = true
		g.inner.WriteHeader(http.StatusOK)
	}
	return g.inner.Write(p)
}

// expire sends the 504 response unless the handler already started
// writing. Further handler writes fail with http.ErrHandlerTimeout.
func (g *guardedWriter) expire() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.expired = true
	if g.started {
		return
	}
	g.inner.Header().Set("Content-Type", "application/json")
	g.inner.WriteHeader(http.StatusGatewayTimeout)
	_, _ = g.inner.Write([]byte(`{"error":"request timeout"}`))
}
