package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const readinessTimeout = 3 * time.Second

// Dependency is something the API needs before it can serve traffic.
type Dependency interface {
	Name() string
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	deps []Dependency
}

func NewHealthHandler(deps ...Dependency) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// Liveness godoc
// @Summary  Liveness probe
// @Tags     health
// @Produce  json
// @Success  200 {object} map[string]string
// @Router   /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness godoc
// @Summary  Readiness probe (MongoDB and Redis)
// @Tags     health
// @Produce  json
// @Success  200 {object} readinessResponse
// @Failure  503 {object} readinessResponse
// @Router   /health/ready [get]
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	resp := readinessResponse{Status: "ok", Dependencies: make(map[string]dependencyStatus, len(h.deps))}
	code := http.StatusOK

	for _, d := range h.deps {
		if err := d.Ping(ctx); err != nil {
			resp.Dependencies[d.Name()] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		resp.Dependencies[d.Name()] = dependencyStatus{Status: "ok"}
	}

	return c.JSON(code, resp)
}
