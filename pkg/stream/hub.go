// Package stream exposes the renderer's event streams to out-of-process
// observers over WebSocket, plus the HTTP surface that carries them.
//
// The hub broadcasts four envelope kinds, mirroring the renderer's
// observer interfaces:
//
//	{"event": "interaction",    "payload": {componentId, componentType, eventType, eventData, timestamp}}
//	{"event": "dataChange",     "payload": {componentId, componentType, oldData, newData, timestamp}}
//	{"event": "renderComplete", "payload": {totalComponents, componentsByType, componentsByCategory, renderTimeMs, fallbacksUsed}}
//	{"event": "renderError",    "payload": {componentId, componentType, error}}
//
// Slow subscribers are dropped rather than allowed to stall the hub.
package stream

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Envelope event kinds.
const (
	EventInteraction    = "interaction"
	EventDataChange     = "dataChange"
	EventRenderComplete = "renderComplete"
	EventRenderError    = "renderError"
)

// Envelope is one broadcast message.
type Envelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

const (
	// writeWait is the per-message write deadline.
	writeWait = 10 * time.Second

	// clientBuffer is the per-client send queue. A client that falls this
	// far behind is disconnected.
	clientBuffer = 64
)

// client is one connected subscriber.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans renderer events out to WebSocket subscribers.
type Hub struct {
	logger *slog.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger:  logger,
		clients: make(map[*client]struct{}),
	}
}

// Broadcast encodes an envelope and queues it for every subscriber.
// Subscribers whose queues are full are dropped.
func (h *Hub) Broadcast(event string, payload any) {
	data, err := json.Marshal(Envelope{Event: event, Payload: payload})
	if err != nil {
		h.logger.Error("stream: encode broadcast", "event", event, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("stream: dropping slow subscriber")
			h.removeLocked(c)
		}
	}
}

// Subscribers returns the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects all subscribers. The hub accepts no new ones after.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.removeLocked(c)
	}
}

// add registers a subscriber and starts its write pump.
func (h *Hub) add(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	go c.writePump()
	return true
}

// remove drops a subscriber.
func (h *Hub) remove(c *client) {
	h.mu.Lock()
	h.removeLocked(c)
	h.mu.Unlock()
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

// writePump drains the send queue onto the connection. It exits when the
// queue is closed or a write fails.
func (c *client) writePump() {
	defer c.conn.Close()
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// readPump discards inbound messages until the connection drops. The
// stream is one-way; reading is only needed to observe close frames.
func (c *client) readPump(h *Hub) {
	defer h.remove(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
