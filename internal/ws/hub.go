// Package ws streams charge point status changes to dashboard clients over
// WebSockets.
package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeTimeout  = 5 * time.Second
	pingInterval  = 30 * time.Second
	sendQueueSize = 16
)

// StatusEvent is pushed to every connected client when a charge point
// changes state.
type StatusEvent struct {
	ChargePointID int64     `json:"charge_point_id"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Hub tracks dashboard connections and fans status events out to them.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*client
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewHub builds the hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*client),
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Run keeps connections alive with periodic pings until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-ticker.C:
			h.mu.RLock()
			for _, c := range h.clients {
				c.ping()
			}
			h.mu.RUnlock()
		}
	}
}

// PublishChargePointStatus broadcasts a status change to every client. A
// client whose queue is full misses the event rather than blocking the
// caller.
func (h *Hub) PublishChargePointStatus(chargePointID int64, status string) {
	event := StatusEvent{
		ChargePointID: chargePointID,
		Status:        status,
		OccurredAt:    time.Now().UTC(),
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.send <- event:
		default:
			h.logger.Warn("dropping status event for slow client", zap.String("client_id", c.id))
		}
	}
}

// HandleWS upgrades the request and registers the client.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan StatusEvent, sendQueueSize),
	}
	h.add(c)

	go c.writePump(func() { h.remove(c.id) })
	go c.readPump()

	h.logger.Info("status feed client connected", zap.String("client_id", c.id))
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(c.send)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.send)
	}
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan StatusEvent
}

// writePump drains the send queue onto the socket. It owns all writes;
// exiting closes the connection.
func (c *client) writePump(onClose func()) {
	defer func() {
		onClose()
		c.conn.Close()
	}()

	for event := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteJSON(event); err != nil {
			return
		}
	}
}

// readPump discards inbound frames; the feed is one-way. It unblocks when
// the peer disconnects.
func (c *client) readPump() {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// ping is safe alongside writePump: WriteControl may be called concurrently
// with other write methods.
func (c *client) ping() {
	_ = c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
}
