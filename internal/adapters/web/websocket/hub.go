// Package websocket pushes live events and alerts to connected dashboard
// clients over /ws. Broadcasts never block the producing component: each
// client has a small buffered queue and slow clients are dropped.
package websocket

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/avidal-labs/lanwarden/internal/core/domain"
	"github.com/avidal-labs/lanwarden/internal/logging"
)

const (
	clientQueueSize = 32
	writeTimeout    = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The control API is LAN-only and token-authenticated upstream of
	// the upgrade; cross-origin dashboards are expected.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Message is the envelope every broadcast uses.
type Message struct {
	Type    string      `json:"type"` // "event" or "alert"
	Payload interface{} `json:"payload"`
}

type alertPayload struct {
	Title    string          `json:"title"`
	Message  string          `json:"message"`
	Severity domain.Severity `json:"severity"`
	Time     time.Time       `json:"time"`
}

// Hub tracks connected clients and fans broadcasts out to them.
type Hub struct {
	log zerolog.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan Message
}

func NewHub() *Hub {
	return &Hub{
		log:     logging.WithComponent("websocket"),
		clients: make(map[*client]struct{}),
	}
}

// HandleWS upgrades the request and serves the client until it
// disconnects.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan Message, clientQueueSize)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	h.log.Info().Int("clients", count).Msg("websocket client connected")

	go h.writeLoop(c)
	h.readLoop(c)
}

// readLoop drains (and discards) client frames; its return signals the
// disconnect.
func (h *Hub) readLoop(c *client) {
	defer h.drop(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	for msg := range c.send {
		data, err := json.Marshal(msg)
		if err != nil {
			continue
		}
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.drop(c)
			return
		}
	}
	_ = c.conn.Close()
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	count := len(h.clients)
	h.mu.Unlock()
	_ = c.conn.Close()
	h.log.Info().Int("clients", count).Msg("websocket client disconnected")
}

// BroadcastEvent pushes a log event to every client without blocking.
func (h *Hub) BroadcastEvent(event domain.Event) {
	h.broadcast(Message{Type: "event", Payload: event})
}

// BroadcastAlert pushes an alert to every client without blocking.
func (h *Hub) BroadcastAlert(title, message string, severity domain.Severity) {
	h.broadcast(Message{Type: "alert", Payload: alertPayload{
		Title:    title,
		Message:  message,
		Severity: severity,
		Time:     time.Now(),
	}})
}

func (h *Hub) broadcast(msg Message) {
	h.mu.Lock()
	var stalled []*client
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			stalled = append(stalled, c)
		}
	}
	h.mu.Unlock()

	// A full queue means the client stopped reading; cut it loose
	// rather than buffer without bound.
	for _, c := range stalled {
		h.drop(c)
	}
}

// ClientCount is used by the status endpoint.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
