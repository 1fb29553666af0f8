package handlers

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	"quitanda/internal/caching"
)

// HealthHandlers reports liveness of the process and its backing stores.
type HealthHandlers struct {
	db    *pgxpool.Pool
	cache caching.CacheService
}

func NewHealthHandlers(db *pgxpool.Pool, cache caching.CacheService) *HealthHandlers {
	return &HealthHandlers{db: db, cache: cache}
}

func (h *HealthHandlers) Health(c echo.Context) error {
	ctx := c.Request().Context()
	status := http.StatusOK
	checks := map[string]string{
		"database": "ok",
		"cache":    "ok",
	}

	if err := h.db.Ping(ctx); err != nil {
		checks["database"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	if err := h.cache.Ping(ctx); err != nil {
		// The cache is best-effort; a dead redis degrades but does not
		// take the service down.
		checks["cache"] = err.Error()
	}

	return c.JSON(status, checks)
}
