package handler

import (
	"net/http"

	"santri_portal/internal/storage"

	"github.com/gin-gonic/gin"
)

// Health reports whether the session storage answers
func Health(store storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.Ping(c.Request.Context()); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "storage": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "storage": "healthy"})
	}
}
