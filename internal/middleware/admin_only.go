// admin_only.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminOnly rejects callers without the admin role. Must run after
// AuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin privileges required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
