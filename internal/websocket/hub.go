package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub keeps the open dashboard and driver connections and fans events out
// to them. A user may hold several connections at once.
type Hub struct {
	// Registered clients (connection id -> Client)
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("✅ [WEBSOCKET] Client connected: user %s (%s), %d connected", client.UserID, client.UserRole, total)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.send)
				log.Printf("🔴 [WEBSOCKET] Client disconnected: user %s (%s), %d connected", client.UserID, client.UserRole, len(h.clients))
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToRole sends an event to every connection of users with the role
func (h *Hub) BroadcastToRole(role string, data interface{}) {
	h.broadcast(data, func(c *Client) bool { return c.UserRole == role })
}

// BroadcastAll sends an event to every connection
func (h *Hub) BroadcastAll(data interface{}) {
	h.broadcast(data, func(*Client) bool { return true })
}

// BroadcastToUser sends an event to every connection of one user
func (h *Hub) BroadcastToUser(userID string, data interface{}) {
	h.broadcast(data, func(c *Client) bool { return c.UserID == userID })
}

// broadcast never blocks: a client whose buffer is full misses the event
func (h *Hub) broadcast(data interface{}, match func(*Client) bool) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		log.Printf("❌ Failed to marshal broadcast message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		if !match(client) {
			continue
		}
		select {
		case client.send <- dataBytes:
		default:
			log.Printf("⚠️ Client buffer full, dropping event for %s", client.UserID)
		}
	}
}

// GetClientCount returns the number of open connections
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// IsUserConnected checks if a user has at least one open connection
func (h *Hub) IsUserConnected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if c.UserID == userID {
			return true
		}
	}
	return false
}
