package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"nexbuzzer-backend/internal/session"
	ws "nexbuzzer-backend/internal/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	Sessions session.Store
	Hub      *ws.Hub
}

func NewWebSocketHandler(sessions session.Store, hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{Sessions: sessions, Hub: hub}
}

// ServeWs authenticates the upgrade request via the session cookie and
// registers the connection with the hub under the user's id.
func (h *WebSocketHandler) ServeWs(c *gin.Context) {
	userID := optionalUserID(c, h.Sessions)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("Failed to upgrade connection:", err)
		return
	}

	client := &ws.Client{
		Hub:    h.Hub,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		UserID: userID,
	}

	client.Hub.Register <- client

	go h.writePump(client)
	go h.readPump(client)
}

func (h *WebSocketHandler) writePump(client *ws.Client) {
	defer func() {
		client.Conn.Close()
	}()

	for message := range client.Send {
		if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}

	client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (h *WebSocketHandler) readPump(client *ws.Client) {
	defer func() {
		client.Hub.Unregister <- client
		client.Conn.Close()
	}()

	for {
		_, data, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("readPump error: %v", err)
			}
			break
		}

		var frame ws.Envelope
		if err := json.Unmarshal(data, &frame); err != nil {
			continue
		}

		if frame.Type == ws.TypePing {
			pong, _ := json.Marshal(ws.Envelope{Type: ws.TypePong})
			select {
			case client.Send <- pong:
			default:
			}
		}
	}
}
