package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"

	"nexbuzzer-backend/internal/middleware"
	"nexbuzzer-backend/internal/models"
	"nexbuzzer-backend/internal/store"
)

// WalletHandler owns the wallet surface: balance, ledger, deposits via
// the payment gateway, and the gateway webhook.
type WalletHandler struct {
	Store      store.Store
	SnapClient snap.Client
	CoreClient coreapi.Client
}

func NewWalletHandler(st store.Store, serverKey string, production bool) *WalletHandler {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}

	var s snap.Client
	s.New(serverKey, env)

	var c coreapi.Client
	c.New(serverKey, env)

	return &WalletHandler{Store: st, SnapClient: s, CoreClient: c}
}

func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID := middleware.UserID(c)

	wallet, err := h.Store.GetWallet(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrWalletNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
			return
		}
		log.Println("Get wallet error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"wallet": wallet})
}

type AddFundsRequest struct {
	AmountCents int `json:"amountCents" binding:"required,gt=0"`
}

// AddFunds records a pending deposit and returns a payment link. The
// wallet is only credited once the gateway webhook confirms settlement.
func (h *WalletHandler) AddFunds(c *gin.Context) {
	userID := middleware.UserID(c)

	var req AddFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
		return
	}

	if _, err := h.Store.GetWallet(c.Request.Context(), userID); err != nil {
		if errors.Is(err, store.ErrWalletNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
			return
		}
		log.Println("Add funds wallet lookup error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	orderID := "DEPOSIT-" + strconv.FormatInt(time.Now().Unix(), 10) + "-U" + strconv.Itoa(userID)

	deposit := models.Transaction{
		UserID:      userID,
		AmountCents: req.AmountCents,
		Type:        models.TxDeposit,
		Status:      models.TxPending,
		Description: "Added funds to wallet",
		OrderID:     orderID,
	}
	if err := h.Store.CreateTransaction(c.Request.Context(), &deposit); err != nil {
		log.Println("Failed to create pending deposit:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: int64(req.AmountCents),
		},
	}

	snapResp, err := h.SnapClient.CreateTransaction(snapReq)
	if snapResp == nil {
		log.Println("Failed to create payment transaction (nil response):", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment gateway error."})
		return
	}
	if err != nil {
		log.Printf("Payment gateway returned a valid response but also a non-nil error: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Payment link created.",
		"redirect_url": snapResp.RedirectURL,
		"order_id":     orderID,
	})
}

// HandlePaymentNotification is the gateway webhook. It re-verifies the
// transaction with the Core API before crediting anything.
func (h *WalletHandler) HandlePaymentNotification(c *gin.Context) {
	var notification coreapi.TransactionStatusResponse
	if err := c.ShouldBindJSON(&notification); err != nil {
		log.Println("Failed to bind payment notification:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification format"})
		return
	}

	apiResp, apiErr := h.CoreClient.CheckTransaction(notification.OrderID)
	if apiResp == nil {
		log.Println("Failed to verify transaction (nil response):", apiErr)
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found or API error"})
		return
	}
	if apiErr != nil {
		log.Printf("Core API returned a valid response but also a non-nil error: %v", apiErr)
	}

	if apiResp.TransactionStatus != "settlement" && apiResp.TransactionStatus != "capture" {
		log.Println("Received non-settled transaction status:", apiResp.TransactionStatus)
		c.JSON(http.StatusOK, gin.H{"status": "ok (not settled)"})
		return
	}

	wallet, deposit, err := h.Store.CompleteDeposit(c.Request.Context(), apiResp.OrderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Deposit not found"})
			return
		}
		if errors.Is(err, store.ErrInvalidState) {
			log.Println("Duplicate webhook, deposit already settled:", apiResp.OrderID)
			c.JSON(http.StatusOK, gin.H{"status": "ok (duplicate)"})
			return
		}
		log.Println("Failed to complete deposit:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	log.Printf("SUCCESS: Credited deposit %s for user %d", deposit.OrderID, deposit.UserID)
	c.JSON(http.StatusOK, gin.H{"status": "ok", "wallet": wallet})
}

func (h *WalletHandler) ListTransactions(c *gin.Context) {
	userID := middleware.UserID(c)

	transactions, err := h.Store.ListTransactions(c.Request.Context(), userID)
	if err != nil {
		log.Println("Get transactions error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}
