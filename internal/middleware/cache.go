// cache.go
package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"food-ordering-api/internal/cache"
)

// CacheResponse serves GET responses from the cache when present and stores
// successful JSON responses under keyPrefix + request URI for the given TTL.
// Mutating handlers invalidate with store.Invalidate(keyPrefix + "*").
func CacheResponse(store *cache.Cache, keyPrefix string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := keyPrefix + c.Request.RequestURI

		var cached json.RawMessage
		if store.Get(c.Request.Context(), key, &cached) {
			c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
			c.Abort()
			return
		}

		writer := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Next()

		if writer.Status() == http.StatusOK {
			// Best effort; a failed write just means the next request
			// regenerates the response.
			_ = store.Set(c.Request.Context(), key, json.RawMessage(writer.body.Bytes()), ttl)
		}
	}
}

type captureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
