package ws

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	// 書き込み完了までの猶予
	writeWait = 10 * time.Second

	// pong を待つ最大時間。pingPeriod より長くなければならない
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// 購読専用チャネルなので受信メッセージは小さいはず
	maxMessageSize = 512

	// クライアントごとの送信バッファ
	sendBufferSize = 16
)

// Client is a middleman between a websocket connection and the hub.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	remoteAddr string
}

// readPump discards everything the client sends and watches for disconnect.
// The server pushes events only; inbound frames just keep the connection alive.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump pumps messages from the hub to the websocket connection and
// keeps it alive with periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// ハブ側がチャネルを閉じた
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
