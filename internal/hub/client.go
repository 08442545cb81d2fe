package hub

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/weiawesome/wes-io-live/collab-service/internal/config"
	pkglog "github.com/weiawesome/wes-io-live/collab-service/pkg/log"
)

// Client is one WebSocket connection. Send is owned by the hub: only the
// event loop writes to it and closes it.
type Client struct {
	ID     string
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	config config.WebSocketConfig
}

func NewClient(id string, hub *Hub, conn *websocket.Conn, cfg config.WebSocketConfig) *Client {
	size := cfg.SendBufferSize
	if size < 1 {
		size = 256
	}
	return &Client{
		ID:     id,
		Hub:    hub,
		Conn:   conn,
		Send:   make(chan []byte, size),
		config: cfg,
	}
}

// ReadPump forwards inbound frames to the hub until the connection fails.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	if c.config.MaxMessageSize > 0 {
		c.Conn.SetReadLimit(c.config.MaxMessageSize)
	}
	c.Conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				l := pkglog.L()
				l.Debug().Err(err).Str(pkglog.FieldConnID, c.ID).Msg("websocket read error")
			}
			return
		}

		if !c.Hub.Dispatch(c, message) {
			return
		}
	}
}

// WritePump drains Send onto the connection and keeps it alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
