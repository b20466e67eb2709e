package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/feedback-portal/internal/service"
)

// StatsHandler serves the dashboard aggregates.
type StatsHandler struct {
	service *service.StatsService
}

// NewStatsHandler constructs handler.
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{service: statsService}
}

// Stats GET /api/stats.
func (h *StatsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Compute(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}
