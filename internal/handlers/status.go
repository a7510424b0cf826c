package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the backing database answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Status reports liveness and database reachability.
func Status(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"active": true, "database": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"active": true, "database": "ok"})
	}
}
