package auth

import (
	"strings"

	"raidboard/backend/internal/database"
	"raidboard/backend/internal/models"

	"raidboard/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// OptionalAuthMiddleware inspects for a token and sets the actor if present
// and valid, but does not fail if the token is missing or invalid. Used on
// public read endpoints such as the activity feed.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				if userID, err := jwt.ParseUserID(parts[1]); err == nil {
					var user models.User
					if err := database.DB.First(&user, userID).Error; err == nil {
						c.Set("userID", user.ID)
						c.Set("role", user.Role)
					}
				}
			}
		}
		c.Next()
	}
}
