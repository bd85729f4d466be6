package ws

import (
	"errors"
	"sync"

	"taskhub/internal/logger"
)

// Hub tracks the open websocket connections of each user and fans reminder
// payloads out to all of them.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[int64]map[*Client]struct{}),
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*Client]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
	logger.Debug("ws client connected", "user_id", c.UserID, "connections", len(h.clients[c.UserID]))
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.clients[c.UserID]
	if !ok {
		return
	}
	delete(conns, c)
	if len(conns) == 0 {
		delete(h.clients, c.UserID)
	}
}

// Push queues payload on every open connection of the user. Returns an error
// when the user has no connection, so the dispatcher can record the delivery
// as failed.
func (h *Hub) Push(userID int64, payload []byte) error {
	h.mu.RLock()
	conns := make([]*Client, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	if len(conns) == 0 {
		return errors.New("no open connection")
	}

	for _, c := range conns {
		select {
		case c.Send <- payload:
		default:
			// slow client, drop the connection rather than block the
			// dispatcher
			c.Close()
		}
	}
	return nil
}

// Connections returns the number of open connections for a user.
func (h *Hub) Connections(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
