package auth

import (
	"net/http"
	"strings"

	"raidboard/backend/internal/database"
	"raidboard/backend/internal/models"
	"raidboard/backend/internal/service"
	"raidboard/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token, loads the user, and stores a
// typed actor (id plus role) on the request context. Every protected
// endpoint reads the actor from here instead of re-deriving it.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or malformed"})
			return
		}

		userID, err := jwt.ParseUserID(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authenticated user not found"})
			return
		}

		c.Set("userID", user.ID)
		c.Set("role", user.Role)
		c.Next()
	}
}

// CurrentActor returns the actor set by AuthMiddleware (or the optional
// variant). ok is false when the request is unauthenticated.
func CurrentActor(c *gin.Context) (service.Actor, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		return service.Actor{}, false
	}
	actor := service.Actor{ID: userID.(uint), Role: models.RoleUserMember}
	if role, ok := c.Get("role"); ok {
		actor.Role = role.(models.Role)
	}
	return actor, true
}
