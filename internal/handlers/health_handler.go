package handlers

import (
	"context"
	"net/http"
	"time"

	"luxedrive/internal/utils"
	"luxedrive/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Pinger is a backing service the readiness check can reach.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	checks  map[string]Pinger
	logger  *logger.Logger
	started time.Time
}

func NewHealthHandler(checks map[string]Pinger, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		checks:  checks,
		logger:  log,
		started: time.Now(),
	}
}

// Health reports liveness and the state of each configured backend.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	healthy := true
	backends := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			h.logger.WithError(err).WithField("backend", name).Warn("Health check failed")
			backends[name] = "down"
			healthy = false
			continue
		}
		backends[name] = "up"
	}

	data := gin.H{
		"service":  utils.AppName,
		"version":  utils.AppVersion,
		"uptime":   time.Since(h.started).Round(time.Second).String(),
		"backends": backends,
	}
	if !healthy {
		c.JSON(http.StatusServiceUnavailable, utils.APIResponse{
			Status:    utils.StatusError,
			Message:   "Service degraded",
			Data:      data,
			Timestamp: time.Now(),
		})
		return
	}

	utils.SuccessResponse(c, "Service healthy", data)
}
