package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gorilla/websocket"
)

const eventAnnouncementCreated = "announcement:created"

type socketEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Subscribe connects to the server's WebSocket endpoint and invalidates
// cached lists whenever a new announcement is pushed. If handler is
// non-nil it is called with each pushed announcement. Subscribe blocks
// until ctx is cancelled or the connection drops.
func (c *Client) Subscribe(ctx context.Context, handler func(Announcement)) error {
	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) + "/ws"

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}
	defer conn.Close()

	// ctx のキャンセルで読み取りを解除する
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		var ev socketEvent
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read event: %w", err)
		}
		if ev.Event != eventAnnouncementCreated {
			continue
		}

		c.cache.InvalidateLists()

		if handler != nil {
			var a Announcement
			if err := json.Unmarshal(ev.Data, &a); err != nil {
				continue
			}
			handler(a)
		}
	}
}
