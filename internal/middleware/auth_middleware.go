// auth_middleware.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"food-ordering-api/internal/model"
	"food-ordering-api/internal/service"
)

// AuthMiddleware validates the bearer token and stores the caller's identity
// in the gin context for the handlers.
func AuthMiddleware(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		claims, err := auth.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("userRole", string(claims.Role))
		c.Next()
	}
}

// IsAdmin reports whether the authenticated caller has the admin role.
func IsAdmin(c *gin.Context) bool {
	return c.GetString("userRole") == string(model.RoleAdmin)
}
