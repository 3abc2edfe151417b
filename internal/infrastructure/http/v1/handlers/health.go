package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"airsolutions/internal/infrastructure/storage/postgres"
	"airsolutions/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Database is what the health checks need from the connection pool.
type Database interface {
	Ping(ctx context.Context) error
	Stats() postgres.PoolStats
}

// HealthHandler serves the unauthenticated probes.
type HealthHandler struct {
	db      Database
	version string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db Database, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

// Live handles GET /health/live.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready handles GET /health/ready. The failure reason is logged, not returned.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		logger.Warn(ctx, "readiness check failed", "check", "database", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"checks": gin.H{"database": "unhealthy"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"checks": gin.H{"database": "healthy"},
	})
}

// Info handles GET /health/info.
func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"app":      "airsolutions",
		"version":  h.version,
		"database": h.db.Stats(),
	})
}
