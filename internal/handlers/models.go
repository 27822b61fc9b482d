package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nexbuzzer-backend/internal/middleware"
	"nexbuzzer-backend/internal/models"
	"nexbuzzer-backend/internal/session"
	"nexbuzzer-backend/internal/store"
)

type ModelHandler struct {
	Store    store.Store
	Sessions session.Store
}

func NewModelHandler(st store.Store, sessions session.Store) *ModelHandler {
	return &ModelHandler{Store: st, Sessions: sessions}
}

// optionalUserID resolves the session cookie on routes that work for
// anonymous visitors too. Returns 0 when not logged in.
func optionalUserID(c *gin.Context, sessions session.Store) int {
	token, err := c.Cookie(session.CookieName)
	if err != nil || token == "" {
		return 0
	}
	userID, ok := sessions.Get(token)
	if !ok {
		return 0
	}
	return userID
}

// modelCard flattens a user + profile pair into the directory response
// shape the client renders.
func modelCard(l store.ModelListing, isFavorite bool) gin.H {
	return gin.H{
		"id":              l.User.ID,
		"username":        l.User.Username,
		"firstName":       l.User.FirstName,
		"lastName":        l.User.LastName,
		"age":             l.User.Age,
		"city":            l.User.City,
		"country":         l.User.Country,
		"profileImage":    l.User.ProfileImage,
		"bio":             l.Profile.Bio,
		"languages":       l.Profile.Languages,
		"categories":      l.Profile.Categories,
		"offerVoiceCalls": l.Profile.OfferVoiceCalls,
		"offerVideoCalls": l.Profile.OfferVideoCalls,
		"voiceRateCents":  l.Profile.VoiceRateCents,
		"videoRateCents":  l.Profile.VideoRateCents,
		"isAvailable":     l.Profile.IsAvailable,
		"isVerified":      l.Profile.IsVerified,
		"profileImages":   l.Profile.ProfileImages,
		"isFavorite":      isFavorite,
	}
}

// ListModels filters the directory by availability, offered call types,
// and language/category membership.
func (h *ModelHandler) ListModels(c *gin.Context) {
	filter := store.ModelFilter{
		Available:  c.Query("available") == "true",
		VoiceCalls: c.Query("voiceCalls") == "true",
		VideoCalls: c.Query("videoCalls") == "true",
		Languages:  c.QueryArray("languages"),
		Categories: c.QueryArray("categories"),
	}

	listings, err := h.Store.ListModels(c.Request.Context(), filter)
	if err != nil {
		log.Println("Get models error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	userID := optionalUserID(c, h.Sessions)
	cards := []gin.H{}
	for _, l := range listings {
		isFavorite := false
		if userID != 0 {
			isFavorite, _ = h.Store.IsFavorite(c.Request.Context(), userID, l.User.ID)
		}
		cards = append(cards, modelCard(l, isFavorite))
	}

	c.JSON(http.StatusOK, gin.H{"models": cards})
}

func (h *ModelHandler) GetModel(c *gin.Context) {
	modelID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid model ID"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.Store.GetUser(ctx, modelID)
	if err != nil || user.Role != models.RoleModel {
		c.JSON(http.StatusNotFound, gin.H{"error": "Model not found"})
		return
	}
	profile, err := h.Store.GetModelProfile(ctx, modelID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Model not found"})
		return
	}

	isFavorite := false
	if userID := optionalUserID(c, h.Sessions); userID != 0 {
		isFavorite, _ = h.Store.IsFavorite(ctx, userID, modelID)
	}

	c.JSON(http.StatusOK, gin.H{"model": modelCard(store.ModelListing{User: user, Profile: profile}, isFavorite)})
}

// UpdateModelRequest carries the model-editable profile settings. The
// owning user and the commission rate cannot be changed here.
type UpdateModelRequest struct {
	Bio             *string            `json:"bio"`
	Languages       *models.StringList `json:"languages"`
	Categories      *models.StringList `json:"categories"`
	OfferVoiceCalls *bool              `json:"offerVoiceCalls"`
	OfferVideoCalls *bool              `json:"offerVideoCalls"`
	VoiceRateCents  *int               `json:"voiceRateCents" binding:"omitempty,gt=0"`
	VideoRateCents  *int               `json:"videoRateCents" binding:"omitempty,gt=0"`
	IsAvailable     *bool              `json:"isAvailable"`
	PayoutInfo      *string            `json:"payoutInfo"`
	ProfileImages   *models.StringList `json:"profileImages"`
}

func (h *ModelHandler) UpdateModel(c *gin.Context) {
	modelID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid model ID"})
		return
	}

	requesterID := middleware.UserID(c)
	if requesterID != modelID {
		requester, err := h.Store.GetUser(c.Request.Context(), requesterID)
		if err != nil || requester.Role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to update this model"})
			return
		}
	}

	var req UpdateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	updated, err := h.Store.UpdateModelProfile(c.Request.Context(), modelID, store.ProfileUpdate{
		Bio:             req.Bio,
		Languages:       req.Languages,
		Categories:      req.Categories,
		OfferVoiceCalls: req.OfferVoiceCalls,
		OfferVideoCalls: req.OfferVideoCalls,
		VoiceRateCents:  req.VoiceRateCents,
		VideoRateCents:  req.VideoRateCents,
		IsAvailable:     req.IsAvailable,
		PayoutInfo:      req.PayoutInfo,
		ProfileImages:   req.ProfileImages,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Model not found"})
			return
		}
		log.Println("Update model error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"modelProfile": updated})
}
