package ws

import (
	"sync"

	"github.com/rs/zerolog/log"
)

const (
	MessageTypeNotification = "notification"
	MessageTypePing         = "ping"
	MessageTypePong         = "pong"
)

type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub tracks connected clients and delivers messages to them. Clients are
// indexed by user so notifications reach only their owner's sessions.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]bool)}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	total := len(h.clients)
	h.mu.Unlock()
	log.Debug().Str("user_id", c.userID).Int("total_clients", total).Msg("websocket client connected")
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	total := len(h.clients)
	h.mu.Unlock()
	log.Debug().Str("user_id", c.userID).Int("total_clients", total).Msg("websocket client disconnected")
}

// SendToUser delivers a message to every connected session of one user.
// Sessions with a full send buffer are skipped rather than blocked on.
func (h *Hub) SendToUser(userID string, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.userID != userID {
			continue
		}
		select {
		case c.send <- msg:
		default:
		}
	}
}

// Broadcast delivers a message to every connected session.
func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
