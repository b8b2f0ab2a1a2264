package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const readinessTimeout = 3 * time.Second

// DependencyCheck pings one backing service for the readiness probe.
type DependencyCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthHandler serves GET /health (liveness) and GET /health/ready (readiness).
type HealthHandler struct {
	started time.Time
	checks  []DependencyCheck
	log     zerolog.Logger
	now     func() time.Time
}

func NewHealthHandler(log zerolog.Logger, checks ...DependencyCheck) *HealthHandler {
	return &HealthHandler{started: time.Now(), checks: checks, log: log, now: time.Now}
}

type livenessResponse struct {
	Status    string    `json:"status" example:"ok"`
	Uptime    float64   `json:"uptime" example:"12.5"`
	Timestamp time.Time `json:"timestamp"`
}

// Liveness confirms the process is alive.
//
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  livenessResponse
// @Router       /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	now := h.now()
	return c.JSON(http.StatusOK, livenessResponse{
		Status:    "ok",
		Uptime:    now.Sub(h.started).Seconds(),
		Timestamp: now.UTC(),
	})
}

type dependencyStatus struct {
	Status string `json:"status" example:"ok"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness checks every dependency before declaring the service ready.
//
// @Summary      Readiness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  readinessResponse
// @Failure      503  {object}  readinessResponse
// @Router       /health/ready [get]
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.checks))
	healthy := true
	for _, chk := range h.checks {
		if err := chk.Ping(ctx); err != nil {
			// Failure details stay in the logs; the endpoint is public.
			h.log.Warn().Err(err).Str("dependency", chk.Name).Msg("readiness check failed")
			deps[chk.Name] = dependencyStatus{Status: "unhealthy"}
			healthy = false
			continue
		}
		deps[chk.Name] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
