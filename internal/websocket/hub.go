package websocket

import (
	"encoding/json"
	"log"

	"github.com/gorilla/websocket"

	"nexbuzzer-backend/internal/models"
)

type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	UserID int
}

// Envelope is the frame pushed to clients.
type Envelope struct {
	Type    string          `json:"type"`
	UserID  int             `json:"userId,omitempty"`
	Message *models.Message `json:"message,omitempty"`
}

// Frame types.
const (
	TypeConnected  = "CONNECTED"
	TypeNewMessage = "NEW_MESSAGE"
	TypePing       = "PING"
	TypePong       = "PONG"
)

// Notification targets one user's socket, if registered. Delivery is
// best-effort with no acknowledgement.
type Notification struct {
	TargetUserID int
	Payload      Envelope
}

type Hub struct {
	Clients    map[int]*Client
	Register   chan *Client
	Unregister chan *Client
	Notify     chan Notification
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[int]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Notify:     make(chan Notification),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			// A newer socket for the same user replaces the old one;
			// closing its send channel ends the stale write pump.
			if old, ok := h.Clients[client.UserID]; ok && old != client {
				close(old.Send)
			}
			h.Clients[client.UserID] = client
			log.Printf("WebSocket client registered for user %d", client.UserID)

			if data, err := json.Marshal(Envelope{Type: TypeConnected, UserID: client.UserID}); err == nil {
				select {
				case client.Send <- data:
				default:
				}
			}

		case client := <-h.Unregister:
			if current, ok := h.Clients[client.UserID]; ok && current == client {
				delete(h.Clients, client.UserID)
				close(client.Send)
				log.Printf("WebSocket client unregistered for user %d", client.UserID)
			}

		case n := <-h.Notify:
			if client, ok := h.Clients[n.TargetUserID]; ok {
				data, err := json.Marshal(n.Payload)
				if err != nil {
					log.Println("Failed to marshal notification:", err)
					continue
				}

				select {
				case client.Send <- data:
				default:
					close(client.Send)
					delete(h.Clients, client.UserID)
				}
			}
		}
	}
}

// NotifyNewMessage pushes a NEW_MESSAGE frame to the receiver's socket.
func (h *Hub) NotifyNewMessage(msg models.Message) {
	h.Notify <- Notification{
		TargetUserID: msg.ReceiverID,
		Payload:      Envelope{Type: TypeNewMessage, Message: &msg},
	}
}
