package handler

import (
	"quiz-engine/internal/middleware"
	"quiz-engine/internal/service"

	"github.com/gofiber/fiber/v2"
)

// HistoryHandler handles the attempt history surface
type HistoryHandler struct {
	service service.HistoryService
}

// NewHistoryHandler creates a new HistoryHandler instance
func NewHistoryHandler(svc service.HistoryService) *HistoryHandler {
	return &HistoryHandler{service: svc}
}

// GetMyAttempts handles GET /api/me/attempts
func (h *HistoryHandler) GetMyAttempts(c *fiber.Ctx) error {
	actorID := middleware.GetActorID(c)

	history, err := h.service.GetAttemptHistory(c.Context(), actorID)
	if err != nil {
		return err
	}
	return c.JSON(history)
}
