package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Pinger is an interface for health check ping operations.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PageCounter reports how many rendered pages the server holds.
type PageCounter interface {
	Len() int
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	pool  Pinger
	pages PageCounter
}

// NewHealthHandler creates a new HealthHandler.
// pool may be nil when the click log is disabled.
func NewHealthHandler(pool Pinger, pages PageCounter) *HealthHandler {
	return &HealthHandler{pool: pool, pages: pages}
}

// Check reports server health.
// Returns 503 when no page has been rendered or the click log database is unreachable.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	if h.pages != nil && h.pages.Len() == 0 {
		log.Error().Msg("health check failed: no pages rendered")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unhealthy",
			"error":  "no pages rendered",
		})
	}

	if h.pool == nil {
		return c.JSON(fiber.Map{
			"status":   "healthy",
			"database": "disabled",
		})
	}

	if err := h.pool.Ping(c.UserContext()); err != nil {
		log.Error().Err(err).Msg("health check failed: database unreachable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unhealthy",
			"error":  "database connection failed",
		})
	}
	return c.JSON(fiber.Map{
		"status":   "healthy",
		"database": "connected",
	})
}
