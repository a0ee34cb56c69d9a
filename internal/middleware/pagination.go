// pagination.go
package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// Pagination parses the page/limit query parameters (1-based page, limit
// capped at 100) and stores them in the gin context for the handlers.
func Pagination() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := intQuery(c, "page", 1)
		if err != nil || page < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "page must be a number greater than 0"})
			c.Abort()
			return
		}

		limit, err := intQuery(c, "limit", defaultLimit)
		if err != nil || limit < 1 || limit > maxLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a number between 1 and 100"})
			c.Abort()
			return
		}

		c.Set("page", page)
		c.Set("limit", limit)
		c.Set("skip", (page-1)*limit)
		c.Next()
	}
}

// PageFrom returns the pagination values stored by Pagination, with defaults
// when the middleware did not run.
func PageFrom(c *gin.Context) (page, limit, skip int) {
	page, limit = c.GetInt("page"), c.GetInt("limit")
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return page, limit, (page - 1) * limit
}

func intQuery(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
