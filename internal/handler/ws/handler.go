package ws

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/gorilla/websocket"

	"city-announcements/internal/handler/http/respond"
)

// Handler upgrades HTTP requests to WebSocket connections and attaches them
// to the hub.
type Handler struct {
	Hub            *Hub
	Logger         *slog.Logger
	AllowedOrigins []string
}

// ServeHTTP WebSocket接続
// @Summary      WebSocket接続
// @Description  announcement:created イベントを購読する WebSocket 接続を確立します
// @Tags         ws
// @Success      101 "Switching Protocols"
// @Failure      403 {string} string "Origin not allowed"
// @Router       /ws [get]
func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
		Error: func(w http.ResponseWriter, _ *http.Request, status int, reason error) {
			respond.SafeError(w, status, reason)
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade は自前でレスポンスを書いている
		h.Logger.Warn("WebSocket upgrade failed",
			"remote_addr", r.RemoteAddr,
			"error", err.Error())
		return
	}

	client := &Client{
		hub:        h.Hub,
		conn:       conn,
		send:       make(chan []byte, sendBufferSize),
		remoteAddr: r.RemoteAddr,
	}
	h.Hub.register <- client

	go client.writePump()
	go client.readPump()
}

// checkOrigin allows same-origin requests plus the configured origins.
// An empty allowlist keeps the gorilla default of same-host only, except
// that requests without an Origin header (non-browser clients) are allowed.
func (h Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if slices.Contains(h.AllowedOrigins, "*") {
		return true
	}
	if slices.Contains(h.AllowedOrigins, origin) {
		return true
	}
	u, err := r.URL.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

// Register registers the WebSocket endpoint with the given mux.
func Register(mux *http.ServeMux, hub *Hub, logger *slog.Logger, allowedOrigins []string) {
	mux.Handle("GET /ws", Handler{Hub: hub, Logger: logger, AllowedOrigins: allowedOrigins})
}
