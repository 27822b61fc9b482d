package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nexbuzzer-backend/internal/middleware"
	"nexbuzzer-backend/internal/models"
	"nexbuzzer-backend/internal/store"
	ws "nexbuzzer-backend/internal/websocket"
)

type MessageHandler struct {
	Store store.Store
	Hub   *ws.Hub
}

func NewMessageHandler(st store.Store, hub *ws.Hub) *MessageHandler {
	return &MessageHandler{Store: st, Hub: hub}
}

type SendMessageRequest struct {
	ReceiverID int    `json:"receiverId" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

// SendMessage persists the message and pushes a NEW_MESSAGE frame to
// the receiver's socket if one is connected. Delivery is best-effort.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	senderID := middleware.UserID(c)

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Store.GetUser(ctx, req.ReceiverID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Receiver not found"})
			return
		}
		log.Println("Send message receiver lookup error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	message := models.Message{
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
	}
	if err := h.Store.CreateMessage(ctx, &message); err != nil {
		log.Println("Create message error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	h.Hub.NotifyNewMessage(message)

	c.JSON(http.StatusCreated, gin.H{"message": message})
}

// GetThread returns the messages between the requester and the other
// user in both directions, oldest first.
func (h *MessageHandler) GetThread(c *gin.Context) {
	currentUserID := middleware.UserID(c)

	otherUserID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	messages, err := h.Store.ListThread(c.Request.Context(), currentUserID, otherUserID)
	if err != nil {
		log.Println("Get messages error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// MarkRead flips the read flag. Only the receiver may do it.
func (h *MessageHandler) MarkRead(c *gin.Context) {
	userID := middleware.UserID(c)

	messageID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message ID"})
		return
	}

	ctx := c.Request.Context()
	message, err := h.Store.GetMessage(ctx, messageID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
			return
		}
		log.Println("Mark read lookup error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	if message.ReceiverID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the receiver can mark a message as read"})
		return
	}

	updated, err := h.Store.MarkMessageRead(ctx, messageID)
	if err != nil {
		log.Println("Mark message as read error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": updated})
}
