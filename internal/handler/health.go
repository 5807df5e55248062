package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// HealthChecker reports process health.
type HealthChecker interface {
	Health(c echo.Context) error
}

// HealthHandler reports database connectivity and processor configuration.
type HealthHandler struct {
	pool                *pgxpool.Pool
	processorConfigured bool
}

var _ HealthChecker = (*HealthHandler)(nil)

// NewHealthHandler creates a new HealthHandler instance.
func NewHealthHandler(pool *pgxpool.Pool, processorConfigured bool) *HealthHandler {
	return &HealthHandler{pool: pool, processorConfigured: processorConfigured}
}

// Health handles GET /health. Database failure returns 503 so load
// balancers pull the instance; a missing processor does not, since most
// of the API still works without billing.
func (h *HealthHandler) Health(c echo.Context) error {
	status := http.StatusOK
	database := "up"

	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := h.pool.Ping(ctx); err != nil {
		status = http.StatusServiceUnavailable
		database = "down"
	}

	processor := "configured"
	if !h.processorConfigured {
		processor = "disabled"
	}

	return c.JSON(status, map[string]string{
		"status":    http.StatusText(status),
		"database":  database,
		"processor": processor,
	})
}
