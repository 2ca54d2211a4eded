package server

import (
	"log/slog"
	"sync"

	"github.com/playperu/monopoly/internal/packet"
)

const sendBuffer = 64

// Hub is the connection registry: it maps each authenticated connection to
// its user and fans packets out to every connection of a user.
type Hub struct {
	logger *slog.Logger

	mu    sync.RWMutex
	conns map[string]*client
	users map[string]map[*client]struct{}
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger,
		conns:  make(map[string]*client),
		users:  make(map[string]map[*client]struct{}),
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	if h.users[c.userID] == nil {
		h.users[c.userID] = make(map[*client]struct{})
	}
	h.users[c.userID][c] = struct{}{}
	h.conns[c.id] = c
	h.mu.Unlock()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	delete(h.conns, c.id)
	delete(h.users[c.userID], c)
	if len(h.users[c.userID]) == 0 {
		delete(h.users, c.userID)
	}
	h.mu.Unlock()
}

// user resolves the user behind connection connID.
func (h *Hub) user(connID string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.conns[connID]
	if !ok {
		return "", false
	}
	return c.userID, true
}

// Connections reports how many connections userID has open.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

// Notify encodes p once and queues it on every connection of userID.
// Users without a connection miss the packet.
func (h *Hub) Notify(userID string, p packet.Server) {
	data, err := packet.Encode(p)
	if err != nil {
		h.logger.Error("encoding packet", "tag", p.Tag(), "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.users[userID] {
		c.enqueue(data)
	}
}

// client is one authenticated websocket connection.
type client struct {
	id       string
	userID   string
	username string
	send     chan []byte
	logger   *slog.Logger
}

// enqueue drops the frame when the writer is too far behind.
func (c *client) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
		c.logger.Warn("dropping packet for slow connection", "conn_id", c.id, "user_id", c.userID)
	}
}

func (c *client) sendPacket(p packet.Server) {
	data, err := packet.Encode(p)
	if err != nil {
		c.logger.Error("encoding packet", "tag", p.Tag(), "error", err)
		return
	}
	c.enqueue(data)
}
