package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	sessions SessionStore
}

func NewHealthHandler(sessions SessionStore) *HealthHandler {
	return &HealthHandler{sessions: sessions}
}

func (h *HealthHandler) GetHealth(c *gin.Context) {
	err := h.sessions.Ping(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"sessions": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"sessions": "connected",
	})
}
