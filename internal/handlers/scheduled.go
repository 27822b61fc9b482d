package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"nexbuzzer-backend/internal/middleware"
	"nexbuzzer-backend/internal/models"
	"nexbuzzer-backend/internal/store"
)

// MinScheduledMinutes is the shortest bookable call.
const MinScheduledMinutes = 5

type ScheduledCallHandler struct {
	Store store.Store
}

func NewScheduledCallHandler(st store.Store) *ScheduledCallHandler {
	return &ScheduledCallHandler{Store: st}
}

func (h *ScheduledCallHandler) ListScheduledCalls(c *gin.Context) {
	calls, err := h.Store.ListScheduledCallsForUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		log.Println("Get scheduled calls error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"scheduledCalls": calls})
}

type ScheduleCallRequest struct {
	ModelID       int       `json:"modelId" binding:"required"`
	ScheduledTime time.Time `json:"scheduledTime" binding:"required"`
	Duration      int       `json:"duration" binding:"required"` // minutes
	Type          string    `json:"type" binding:"required,oneof=voice video"`
}

// ScheduleCall books a future call. Unlike starting a live call, the
// full prospective cost (rate times duration) must already be covered
// by the wallet balance.
func (h *ScheduledCallHandler) ScheduleCall(c *gin.Context) {
	userID := middleware.UserID(c)

	var req ScheduleCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	if req.Duration < MinScheduledMinutes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Minimum call duration is 5 minutes"})
		return
	}

	ctx := c.Request.Context()
	modelUser, err := h.Store.GetUser(ctx, req.ModelID)
	if err != nil || modelUser.Role != models.RoleModel {
		c.JSON(http.StatusNotFound, gin.H{"error": "Model not found"})
		return
	}
	profile, err := h.Store.GetModelProfile(ctx, req.ModelID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Model not found"})
		return
	}

	if (req.Type == models.CallVoice && !profile.OfferVoiceCalls) ||
		(req.Type == models.CallVideo && !profile.OfferVideoCalls) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Model does not offer " + req.Type + " calls"})
		return
	}

	wallet, err := h.Store.GetWallet(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrWalletNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
			return
		}
		log.Println("Schedule call wallet lookup error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	rate := profile.VoiceRateCents
	if req.Type == models.CallVideo {
		rate = profile.VideoRateCents
	}
	estimatedCost := rate * req.Duration

	if wallet.BalanceCents < estimatedCost {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":               "Insufficient funds. Please add more funds to your wallet.",
			"requiredAmountCents": estimatedCost,
			"currentBalanceCents": wallet.BalanceCents,
		})
		return
	}

	call := models.ScheduledCall{
		UserID:        userID,
		ModelID:       req.ModelID,
		ScheduledTime: req.ScheduledTime,
		Duration:      req.Duration,
		Type:          req.Type,
		RateCents:     rate,
		Status:        models.SchedulePending,
	}
	if err := h.Store.CreateScheduledCall(ctx, &call); err != nil {
		log.Println("Create scheduled call error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"scheduledCall": call})
}

type UpdateScheduledCallRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed cancelled"`
}

// UpdateScheduledCall moves a pending booking to confirmed or
// cancelled. Either participant may do it; terminal states are never
// reopened.
func (h *ScheduledCallHandler) UpdateScheduledCall(c *gin.Context) {
	userID := middleware.UserID(c)

	callID, err := strconv.Atoi(c.Param("callId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid call ID"})
		return
	}

	var req UpdateScheduledCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	ctx := c.Request.Context()
	call, err := h.Store.GetScheduledCall(ctx, callID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Scheduled call not found"})
			return
		}
		log.Println("Get scheduled call error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	if call.UserID != userID && call.ModelID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a participant of this call"})
		return
	}

	updated, err := h.Store.UpdateScheduledCallStatus(ctx, callID, req.Status)
	if err != nil {
		if errors.Is(err, store.ErrInvalidState) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Scheduled call is not pending"})
			return
		}
		log.Println("Update scheduled call error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"scheduledCall": updated})
}
