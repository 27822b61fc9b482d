package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"nexbuzzer-backend/internal/store"
)

// AdminHandler serves the admin listing endpoints. Routes are guarded
// by the admin role middleware.
type AdminHandler struct {
	Store store.Store
}

func NewAdminHandler(st store.Store) *AdminHandler {
	return &AdminHandler{Store: st}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.Store.ListUsers(c.Request.Context())
	if err != nil {
		log.Println("Admin list users error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	out := []gin.H{}
	for _, u := range users {
		out = append(out, userResponse(u))
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

func (h *AdminHandler) ListModels(c *gin.Context) {
	listings, err := h.Store.ListModels(c.Request.Context(), store.ModelFilter{})
	if err != nil {
		log.Println("Admin list models error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	out := []gin.H{}
	for _, l := range listings {
		card := modelCard(l, false)
		card["isVerified"] = l.Profile.IsVerified
		card["commissionRateBps"] = l.Profile.CommissionRateBps
		out = append(out, card)
	}
	c.JSON(http.StatusOK, gin.H{"models": out})
}
