package middleware

import (
	"net/http"
	"strings"

	"research-cell-api/config"
	"research-cell-api/models"
	"research-cell-api/services"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token and puts the request identity
// into the gin context. The effective role is the view role when the account
// has switched, the base role otherwise.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := services.ParseToken(tokenString)
		if err != nil {
			c.JSON(services.HTTPStatus(err), gin.H{"error": services.PublicMessage(err)})
			c.Abort()
			return
		}

		// Check if user still exists
		var user models.User
		if err := config.DB.Where("user_id = ? AND delete_at IS NULL", claims.UserID).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("baseRole", claims.BaseRole)
		c.Set("effectiveRole", claims.EffectiveRole())
		c.Set("isMainAdmin", user.IsMainAdmin)
		c.Set("claims", claims)

		c.Next()
	}
}

// RequireRole checks the request's effective role against the allowed set.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleValue, exists := c.Get("effectiveRole")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "Role not found"})
			c.Abort()
			return
		}

		effectiveRole := roleValue.(string)
		allowed := false
		for _, role := range roles {
			if effectiveRole == role {
				allowed = true
				break
			}
		}

		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}
