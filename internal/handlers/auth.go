package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"nexbuzzer-backend/internal/middleware"
	"nexbuzzer-backend/internal/models"
	"nexbuzzer-backend/internal/session"
	"nexbuzzer-backend/internal/store"
)

// AuthHandler owns registration, login, logout and the me endpoint.
type AuthHandler struct {
	Store     store.Store
	Sessions  session.Store
	CookieTTL int // seconds
}

func NewAuthHandler(st store.Store, sessions session.Store) *AuthHandler {
	return &AuthHandler{
		Store:     st,
		Sessions:  sessions,
		CookieTTL: int(session.DefaultTTL.Seconds()),
	}
}

// RegisterRequest defines the JSON struct we expect from the client.
type RegisterRequest struct {
	Username     string `json:"username" binding:"required,min=3"`
	Password     string `json:"password" binding:"required,min=8"`
	Email        string `json:"email" binding:"required,email"`
	Role         string `json:"role" binding:"omitempty,oneof=user model"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Gender       string `json:"gender"`
	Age          int    `json:"age"`
	City         string `json:"city"`
	Country      string `json:"country"`
	ProfileImage string `json:"profileImage"`
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, userID int) {
	token := h.Sessions.Create(userID)
	c.SetCookie(session.CookieName, token, h.CookieTTL, "/", "", false, true)
}

// Register creates the user, its wallet, and a model profile when the
// role is model, then logs the new user in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if req.Role == "" {
		req.Role = models.RoleUser
	}

	// We MUST NOT store the plain-text password.
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Println("Password hashing error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error, please try again."})
		return
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: string(passwordHash),
		Email:        req.Email,
		Role:         req.Role,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Gender:       req.Gender,
		Age:          req.Age,
		City:         req.City,
		Country:      req.Country,
		ProfileImage: req.ProfileImage,
	}

	ctx := c.Request.Context()
	if err := h.Store.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "Username or email already in use."})
			return
		}
		log.Println("Failed to create user:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	if err := h.Store.CreateWallet(ctx, user.ID); err != nil {
		log.Println("Failed to create wallet:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	if user.Role == models.RoleModel {
		profile := models.ModelProfile{
			UserID:            user.ID,
			Languages:         models.StringList{},
			Categories:        models.StringList{},
			OfferVoiceCalls:   true,
			OfferVideoCalls:   true,
			VoiceRateCents:    models.DefaultVoiceRateCents,
			VideoRateCents:    models.DefaultVideoRateCents,
			IsAvailable:       false,
			CommissionRateBps: models.DefaultCommissionRateBps,
			ProfileImages:     models.StringList{},
		}
		if err := h.Store.CreateModelProfile(ctx, &profile); err != nil {
			log.Println("Failed to create model profile:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
			return
		}
	}

	h.setSessionCookie(c, user.ID)

	c.JSON(http.StatusCreated, gin.H{
		"user": gin.H{"id": user.ID, "username": user.Username, "role": user.Role, "email": user.Email},
	})
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user, err := h.Store.GetUserByUsername(c.Request.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		log.Println("Database error on login:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	h.setSessionCookie(c, user.ID)

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{"id": user.ID, "username": user.Username, "role": user.Role, "email": user.Email},
	})
}

// Logout destroys the session and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(session.CookieName); err == nil && token != "" {
		h.Sessions.Destroy(token)
	}
	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Me returns the authenticated user with wallet balance and, for
// models, the model profile.
func (h *AuthHandler) Me(c *gin.Context) {
	userID := middleware.UserID(c)
	ctx := c.Request.Context()

	user, err := h.Store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		log.Println("Auth me error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	balanceCents := 0
	if wallet, err := h.Store.GetWallet(ctx, userID); err == nil {
		balanceCents = wallet.BalanceCents
	}

	var profile *models.ModelProfile
	if user.Role == models.RoleModel {
		if p, err := h.Store.GetModelProfile(ctx, userID); err == nil {
			profile = &p
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":                  user.ID,
			"username":            user.Username,
			"role":                user.Role,
			"email":               user.Email,
			"firstName":           user.FirstName,
			"lastName":            user.LastName,
			"gender":              user.Gender,
			"age":                 user.Age,
			"city":                user.City,
			"country":             user.Country,
			"profileImage":        user.ProfileImage,
			"walletBalanceCents":  balanceCents,
			"modelProfile":        profile,
		},
	})
}
