package controllers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models/dto"
)

// HealthCheck probes one backing service
type HealthCheck func(ctx context.Context) error

// HealthController reports whether the backing services respond
type HealthController struct {
	checks  map[string]HealthCheck
	timeout time.Duration
	logger  zerolog.Logger
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// NewHealthController creates a new HealthController over named checks
func NewHealthController(checks map[string]HealthCheck, logger zerolog.Logger) *HealthController {
	return &HealthController{
		checks:  checks,
		timeout: 2 * time.Second,
		logger:  logger,
	}
}

// Health godoc
// @Summary Service health
// @Description 200 when every dependency answers, 503 otherwise
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse{data=HealthResponse}
// @Failure 503 {object} dto.APIResponse{data=HealthResponse}
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), c.timeout)
	defer cancel()

	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := HealthResponse{Status: "ok", Services: make(map[string]string, len(names))}
	for _, name := range names {
		if err := c.checks[name](reqCtx); err != nil {
			c.logger.Warn().Err(err).Str("service", name).Msg("Health check failed")
			resp.Services[name] = "down"
			resp.Status = "degraded"
			continue
		}
		resp.Services[name] = "up"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	ctx.JSON(status, dto.NewStructuredResponse(resp, "Health checked"))
}
