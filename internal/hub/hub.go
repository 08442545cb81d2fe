package hub

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/weiawesome/wes-io-live/collab-service/internal/config"
	pkglog "github.com/weiawesome/wes-io-live/collab-service/pkg/log"
)

// Handler receives connection events. All callbacks run on the hub's
// event loop, one at a time.
type Handler interface {
	OnConnect(c *Client)
	OnMessage(c *Client, data []byte)
	OnDisconnect(c *Client)
}

type inboundMessage struct {
	client *Client
	data   []byte
}

// Hub serialises every connection event through a single loop. Sends are
// non-blocking; a client whose buffer is full is marked dead and removed
// once the current event has been handled.
type Hub struct {
	clients    map[string]*Client // clientID -> client
	dead       map[string]*Client
	register   chan *Client
	unregister chan *Client
	inbound    chan *inboundMessage
	handler    Handler
	mu         sync.RWMutex
	config     config.WebSocketConfig
	done       chan struct{}
}

func NewHub(cfg config.WebSocketConfig) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		dead:       make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan *inboundMessage),
		config:     cfg,
		done:       make(chan struct{}),
	}
}

// SetHandler installs the event handler. It must be called before Run.
func (h *Hub) SetHandler(handler Handler) {
	h.handler = handler
}

// Config returns the websocket settings clients are created with.
func (h *Hub) Config() config.WebSocketConfig {
	return h.config
}

// Run processes events until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) error {
	l := pkglog.L()
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			l.Info().Msg("hub stopped")
			return nil

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			l.Debug().Str(pkglog.FieldConnID, client.ID).Msg("client registered")
			h.call(client, "connect", func() { h.handler.OnConnect(client) })

		case client := <-h.unregister:
			h.remove(client)

		case msg := <-h.inbound:
			if h.isLive(msg.client) {
				h.call(msg.client, "message", func() { h.handler.OnMessage(msg.client, msg.data) })
			}
		}

		h.prune()
	}
}

// Register queues a new client. It returns false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister queues a client for removal. Removing an unknown or already
// removed client is a no-op.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Dispatch hands an inbound frame to the loop. The channels are unbuffered
// so a client's frames and its unregister are handled in the order sent. It
// returns false once the hub has stopped.
func (h *Hub) Dispatch(client *Client, data []byte) bool {
	select {
	case h.inbound <- &inboundMessage{client: client, data: data}:
		return true
	case <-h.done:
		return false
	}
}

// Send encodes v and queues it for connID. It never blocks; false means the
// client is unknown or dead. Send is only safe from Handler callbacks.
func (h *Hub) Send(connID string, v interface{}) bool {
	data, err := json.Marshal(v)
	if err != nil {
		l := pkglog.L()
		l.Error().Err(err).Str(pkglog.FieldConnID, connID).Msg("failed to encode frame")
		return false
	}
	return h.SendRaw(connID, data)
}

// SendRaw queues pre-encoded bytes for connID.
func (h *Hub) SendRaw(connID string, data []byte) bool {
	h.mu.RLock()
	client, ok := h.clients[connID]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	if _, dead := h.dead[connID]; dead {
		return false
	}

	select {
	case client.Send <- data:
		return true
	default:
		h.dead[connID] = client
		l := pkglog.L()
		l.Warn().Str(pkglog.FieldConnID, connID).Msg("send buffer full, dropping client")
		return false
	}
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) isLive(client *Client) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[client.ID] == client
}

// prune removes clients marked dead during the last event. Removing one
// can notify others and mark more of them dead.
func (h *Hub) prune() {
	for len(h.dead) > 0 {
		for id, client := range h.dead {
			delete(h.dead, id)
			h.remove(client)
			break
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	if h.clients[client.ID] != client {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.ID)
	delete(h.dead, client.ID)
	close(client.Send)
	h.mu.Unlock()

	l := pkglog.L()
	l.Debug().Str(pkglog.FieldConnID, client.ID).Msg("client unregistered")
	h.call(client, "disconnect", func() { h.handler.OnDisconnect(client) })
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, client := range h.clients {
		delete(h.clients, id)
		close(client.Send)
	}
}

func (h *Hub) call(client *Client, stage string, fn func()) {
	if h.handler == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			l := pkglog.L()
			l.Error().
				Interface("panic", r).
				Str(pkglog.FieldConnID, client.ID).
				Str("stage", stage).
				Msg("recovered from handler panic")
		}
	}()
	fn()
}
