// Package ws provides the WebSocket push channel for announcement events.
// Connected clients receive an event whenever a new announcement is created.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"

	"city-announcements/internal/domain/entity"
	"city-announcements/internal/handler/http/announcement"
	"city-announcements/internal/observability/metrics"
)

// EventAnnouncementCreated is the event name clients subscribe to.
const EventAnnouncementCreated = "announcement:created"

// Event is the envelope every pushed message uses.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub maintains the set of active clients and fans broadcast messages out
// to them. All client set mutations happen on the Run goroutine.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	active     atomic.Int64
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run processes register, unregister, and broadcast events until ctx is done.
// It must be started before any connection is accepted.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
			h.active.Store(int64(len(h.clients)))
			metrics.SetActiveConnections(len(h.clients))
			h.logger.Info("WebSocket client connected",
				"remote_addr", client.remoteAddr,
				"active", len(h.clients))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				close(client.send)
				delete(h.clients, client)
				h.active.Store(int64(len(h.clients)))
				metrics.SetActiveConnections(len(h.clients))
				h.logger.Info("WebSocket client disconnected",
					"remote_addr", client.remoteAddr,
					"active", len(h.clients))
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// 書き込みが追いつかないクライアントは切断する
					close(client.send)
					delete(h.clients, client)
					h.active.Store(int64(len(h.clients)))
					metrics.SetActiveConnections(len(h.clients))
					h.logger.Warn("WebSocket client dropped (send buffer full)",
						"remote_addr", client.remoteAddr)
				}
			}
		}
	}
}

// ActiveClients reports how many clients are currently connected.
func (h *Hub) ActiveClients() int {
	return int(h.active.Load())
}

// AnnouncementCreated broadcasts an announcement:created event to every
// connected client. Implements the announcement usecase Notifier; failures
// are logged, never propagated, so a push problem cannot fail the create.
func (h *Hub) AnnouncementCreated(_ context.Context, a *entity.Announcement) {
	payload, err := json.Marshal(Event{
		Event: EventAnnouncementCreated,
		Data:  announcement.NewDTO(a),
	})
	if err != nil {
		h.logger.Error("Failed to encode broadcast event",
			"event", EventAnnouncementCreated,
			"announcement_id", a.ID,
			"error", err.Error())
		return
	}

	select {
	case h.broadcast <- payload:
		metrics.IncBroadcasts(EventAnnouncementCreated)
	default:
		h.logger.Warn("Broadcast channel full, event dropped",
			"event", EventAnnouncementCreated,
			"announcement_id", a.ID)
	}
}
