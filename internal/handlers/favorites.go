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
)

type FavoriteHandler struct {
	Store store.Store
}

func NewFavoriteHandler(st store.Store) *FavoriteHandler {
	return &FavoriteHandler{Store: st}
}

func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	listings, err := h.Store.ListFavorites(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		log.Println("Get favorites error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	favorites := []gin.H{}
	for _, l := range listings {
		favorites = append(favorites, modelCard(l, true))
	}
	c.JSON(http.StatusOK, gin.H{"favorites": favorites})
}

type AddFavoriteRequest struct {
	ModelID int `json:"modelId" binding:"required"`
}

func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	userID := middleware.UserID(c)

	var req AddFavoriteRequest
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

	favorite := models.Favorite{UserID: userID, ModelID: req.ModelID}
	if err := h.Store.CreateFavorite(ctx, &favorite); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Model already in favorites"})
			return
		}
		log.Println("Add favorite error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"favorite": favorite})
}

func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	userID := middleware.UserID(c)

	modelID, err := strconv.Atoi(c.Param("modelId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid model ID"})
		return
	}

	if err := h.Store.DeleteFavorite(c.Request.Context(), userID, modelID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Favorite not found"})
			return
		}
		log.Println("Remove favorite error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Favorite removed"})
}
