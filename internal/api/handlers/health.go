package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Pinger is anything that can report whether the database answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check reports service status, 503 when the database is unreachable
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		log.WithError(err).Warn("health check: database unreachable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "service": "healthcare-qms", "database": "unreachable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "healthcare-qms"})
}
