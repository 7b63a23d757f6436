package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type StatusHandler struct {
	ping func(ctx context.Context) error
}

// NewStatusHandler reports the service as available while ping succeeds.
// ping may be nil when there is nothing to check.
func NewStatusHandler(ping func(ctx context.Context) error) *StatusHandler {
	return &StatusHandler{ping: ping}
}

func (h *StatusHandler) Status(c *gin.Context) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "Unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "Available"})
}
