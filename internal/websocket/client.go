package websocket

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"smarttrash-backend/internal/models"
	"smarttrash-backend/internal/routing"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 2048

	sendBufferSize = 256
)

// Client is one WebSocket connection
type Client struct {
	ID       string
	UserID   string
	UserRole string
	conn     *websocket.Conn
	hub      *Hub
	send     chan []byte
}

// IncomingMessage is a message sent by the client
type IncomingMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// TruckPosition is what a driver's app reports while on a round
type TruckPosition struct {
	RouteID  string          `json:"route_id,omitempty"`
	Location models.Location `json:"location"`
}

// NewClient creates a new WebSocket client
func NewClient(userID, userRole string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:       uuid.New().String(),
		UserID:   userID,
		UserRole: userRole,
		conn:     conn,
		hub:      hub,
		send:     make(chan []byte, sendBufferSize),
	}
}

// ReadPump pumps messages from the WebSocket connection to the hub
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		if reply := c.handleMessage(message, time.Now()); reply != nil {
			select {
			case c.send <- reply:
			default:
			}
		}
	}
}

// handleMessage processes one client message and returns the direct reply,
// if any
func (c *Client) handleMessage(message []byte, now time.Time) []byte {
	var msg IncomingMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Printf("Invalid message format: %v", err)
		return nil
	}

	switch msg.Type {
	case "ping":
		reply, _ := json.Marshal(map[string]interface{}{
			"type":      "pong",
			"timestamp": now.UTC().Format(time.RFC3339),
		})
		return reply

	case "truck_position":
		if c.UserRole != models.RoleDriver {
			return nil
		}
		var pos TruckPosition
		if err := json.Unmarshal(msg.Data, &pos); err != nil {
			log.Printf("❌ Invalid truck_position from %s: %v", c.UserID, err)
			return nil
		}
		if err := routing.ValidateLocation(pos.Location); err != nil {
			log.Printf("❌ Invalid truck_position from %s: %v", c.UserID, err)
			return nil
		}
		c.hub.BroadcastToRole(models.RoleAdmin, map[string]interface{}{
			"type": "truck_position",
			"data": map[string]interface{}{
				"driver_id": c.UserID,
				"route_id":  pos.RouteID,
				"location":  pos.Location,
				"timestamp": now.Unix(),
			},
		})
	}
	return nil
}

// WritePump pumps messages from the hub to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
