package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"nexbuzzer-backend/internal/session"
	"nexbuzzer-backend/internal/store"
)

// Context keys set by the middleware for downstream handlers.
const (
	CtxUserID = "userID"
	CtxUser   = "user"
)

// RequireAuth resolves the session cookie against the session store and
// puts the user id on the context. No cookie or an expired session
// aborts with 401.
func RequireAuth(sessions session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(session.CookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		userID, ok := sessions.Get(token)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			return
		}

		c.Set(CtxUserID, userID)
		c.Next()
	}
}

// RequireRole loads the authenticated user and aborts with 403 unless
// it has the given role. Must run after RequireAuth.
func RequireRole(st store.Store, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt(CtxUserID)

		user, err := st.GetUser(c.Request.Context(), userID)
		if err != nil {
			log.Println("Role check failed to load user:", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		if user.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied. " + role + " role required."})
			return
		}

		c.Set(CtxUser, user)
		c.Next()
	}
}

// UserID reads the authenticated user id set by RequireAuth.
func UserID(c *gin.Context) int {
	return c.GetInt(CtxUserID)
}
