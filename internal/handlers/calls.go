package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"nexbuzzer-backend/internal/billing"
	"nexbuzzer-backend/internal/middleware"
	"nexbuzzer-backend/internal/models"
	"nexbuzzer-backend/internal/rtc"
	"nexbuzzer-backend/internal/store"
)

// CallHandler owns the call session lifecycle: start, end (settlement),
// and history for both sides.
type CallHandler struct {
	Store store.Store
	RTC   *rtc.Issuer
	Now   func() time.Time
}

func NewCallHandler(st store.Store, issuer *rtc.Issuer) *CallHandler {
	return &CallHandler{Store: st, RTC: issuer, Now: time.Now}
}

func (h *CallHandler) ListUserCalls(c *gin.Context) {
	calls, err := h.Store.ListCallSessionsByUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		log.Println("Get user calls error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"calls": calls})
}

func (h *CallHandler) ListModelCalls(c *gin.Context) {
	modelID := middleware.UserID(c)

	user, err := h.Store.GetUser(c.Request.Context(), modelID)
	if err != nil || user.Role != models.RoleModel {
		c.JSON(http.StatusForbidden, gin.H{"error": "Model role required"})
		return
	}

	calls, err := h.Store.ListCallSessionsByModel(c.Request.Context(), modelID)
	if err != nil {
		log.Println("Get model calls error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"calls": calls})
}

type StartCallRequest struct {
	ModelID int    `json:"modelId" binding:"required"`
	Type    string `json:"type" binding:"required,oneof=voice video"`
}

// StartCall creates an active session after checking the model is
// available, offers the call type, and the caller can afford at least
// one minute at the applicable rate. The rate is snapshotted into the
// session and never recalculated.
func (h *CallHandler) StartCall(c *gin.Context) {
	userID := middleware.UserID(c)

	var req StartCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
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

	if !profile.IsAvailable {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Model is not available"})
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
		log.Println("Start call wallet lookup error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	rate := profile.VoiceRateCents
	if req.Type == models.CallVideo {
		rate = profile.VideoRateCents
	}

	// Minimum one minute must be affordable up front; the total is
	// unknown until the call ends.
	if wallet.BalanceCents < rate {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient funds. Please add more funds to your wallet."})
		return
	}

	roomName := rtc.RoomName(userID, req.ModelID)
	token, err := h.RTC.AccessToken(strconv.Itoa(userID), roomName)
	if err != nil {
		log.Println("Failed to issue room token:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	call := models.CallSession{
		UserID:    userID,
		ModelID:   req.ModelID,
		Type:      req.Type,
		Status:    models.CallActive,
		StartTime: h.Now(),
		RateCents: rate,
		RoomID:    roomName,
		RoomToken: token,
	}
	if err := h.Store.CreateCallSession(ctx, &call); err != nil {
		log.Println("Create call error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"call": call})
}

// EndCall settles an active call: duration and cost are computed from
// the snapshotted rate, the caller is debited, the model credited its
// commission share, and both ledger rows plus the session update are
// applied atomically by the store.
func (h *CallHandler) EndCall(c *gin.Context) {
	userID := middleware.UserID(c)

	callID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid call ID"})
		return
	}

	ctx := c.Request.Context()
	call, err := h.Store.GetCallSession(ctx, callID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Call session not found"})
			return
		}
		log.Println("End call lookup error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	if call.UserID != userID && call.ModelID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a participant of this call"})
		return
	}
	if call.Status != models.CallActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Call is not active"})
		return
	}

	commissionBps := models.DefaultCommissionRateBps
	if profile, err := h.Store.GetModelProfile(ctx, call.ModelID); err == nil {
		commissionBps = profile.CommissionRateBps
	}

	out := billing.Compute(call.StartTime, h.Now(), call.RateCents, commissionBps)

	settled, err := h.Store.SettleCall(ctx, store.CallSettlement{
		CallID:           callID,
		EndTime:          call.StartTime.Add(time.Duration(out.DurationSeconds) * time.Second),
		DurationSeconds:  out.DurationSeconds,
		TotalCostCents:   out.TotalCostCents,
		ModelCreditCents: out.ModelCreditCents,
		ChargeDescription: fmt.Sprintf("Payment for %d minute %s call with model #%d",
			out.BilledMinutes, call.Type, call.ModelID),
		RevenueDescription: fmt.Sprintf("Commission for %d minute %s call with user #%d",
			out.BilledMinutes, call.Type, call.UserID),
	})
	if err != nil {
		if errors.Is(err, store.ErrInvalidState) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Call is not active"})
			return
		}
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Call session not found"})
			return
		}
		log.Println("Settle call error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"call": gin.H{
			"id":             settled.ID,
			"status":         settled.Status,
			"startTime":      settled.StartTime,
			"endTime":        settled.EndTime,
			"duration":       settled.Duration,
			"totalCostCents": settled.TotalCostCents,
		},
	})
}
