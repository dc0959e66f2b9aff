package websocket

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"smarttrash-backend/internal/middleware"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket authenticates with the ?token= query parameter (browsers
// cannot set headers on a WebSocket handshake) and upgrades the connection
func HandleWebSocket(hub *Hub, jwtSecret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := middleware.GetUserFromContext(r)
		if tokenString := r.URL.Query().Get("token"); tokenString != "" {
			if jwtSecret == "" {
				log.Println("❌ JWT secret not configured")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			claims, err := middleware.ParseToken(jwtSecret, tokenString)
			if err != nil {
				log.Printf("❌ Invalid token in query parameter: %v", err)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			userClaims, ok = claims, true
		}
		if !ok {
			log.Println("❌ No user for WebSocket connection")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("❌ WebSocket upgrade failed: %v", err)
			return
		}

		client := NewClient(userClaims.UserID, userClaims.Role, conn, hub)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
	}
}
