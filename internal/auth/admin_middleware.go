package auth

import (
	"net/http"

	"raidboard/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// AdminMiddleware gates operator-only routes. It must be used AFTER the
// standard AuthMiddleware, which has already resolved the typed role.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			// This should not happen if AuthMiddleware is used before it
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		if !role.(models.Role).CanModerate() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}

		c.Next()
	}
}
