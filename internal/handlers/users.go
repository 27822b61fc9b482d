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

type UserHandler struct {
	Store store.Store
}

func NewUserHandler(st store.Store) *UserHandler {
	return &UserHandler{Store: st}
}

func userResponse(u models.User) gin.H {
	return gin.H{
		"id":           u.ID,
		"username":     u.Username,
		"role":         u.Role,
		"firstName":    u.FirstName,
		"lastName":     u.LastName,
		"gender":       u.Gender,
		"age":          u.Age,
		"city":         u.City,
		"country":      u.Country,
		"profileImage": u.ProfileImage,
	}
}

// canAccessUser allows the user itself and admins.
func (h *UserHandler) canAccessUser(c *gin.Context, targetID int) bool {
	requesterID := middleware.UserID(c)
	if requesterID == targetID {
		return true
	}
	requester, err := h.Store.GetUser(c.Request.Context(), requesterID)
	return err == nil && requester.Role == models.RoleAdmin
}

func (h *UserHandler) GetUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if !h.canAccessUser(c, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to access this user's data"})
		return
	}

	user, err := h.Store.GetUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		log.Println("Get user error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}

// UpdateUserRequest carries the editable profile fields. Username,
// email, role and password cannot be changed through this endpoint.
type UpdateUserRequest struct {
	FirstName    *string `json:"firstName"`
	LastName     *string `json:"lastName"`
	Gender       *string `json:"gender"`
	Age          *int    `json:"age"`
	City         *string `json:"city"`
	Country      *string `json:"country"`
	ProfileImage *string `json:"profileImage"`
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if !h.canAccessUser(c, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to update this user"})
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	updated, err := h.Store.UpdateUser(c.Request.Context(), userID, store.UserUpdate{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Gender:       req.Gender,
		Age:          req.Age,
		City:         req.City,
		Country:      req.Country,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		log.Println("Update user error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userResponse(updated)})
}
