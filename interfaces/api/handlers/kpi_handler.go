package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"linetask/domain/services"
	"linetask/pkg/utils"
)

type KPIHandler struct {
	kpiService services.KPIService
}

func NewKPIHandler(kpiService services.KPIService) *KPIHandler {
	return &KPIHandler{kpiService: kpiService}
}

// Leaderboard: /groups/:id/leaderboard?period=weekly&at=2026-08-31T00:00:00Z
func (h *KPIHandler) Leaderboard(c *fiber.Ctx) error {
	ctx := c.UserContext()

	groupID, err := paramUUID(c, "id")
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid group ID")
	}

	period := c.Query("period", "weekly")

	at := time.Now()
	if raw := c.Query("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return utils.BadRequestResponse(c, "at must be RFC 3339")
		}
		at = parsed
	}

	board, err := h.kpiService.Leaderboard(ctx, groupID, period, at)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, board)
}
