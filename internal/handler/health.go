package handler

import (
	"quiz-engine/internal/domain"
	"quiz-engine/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HealthHandler reports whether the service and its cache are reachable
type HealthHandler struct {
	cache domain.Cache
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(cache domain.Cache) *HealthHandler {
	return &HealthHandler{cache: cache}
}

// Check handles GET /health
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	if err := h.cache.Ping(c.Context()); err != nil {
		logger.Get().Warn("Cache health check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "degraded",
			"cache":  "unreachable",
		})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
