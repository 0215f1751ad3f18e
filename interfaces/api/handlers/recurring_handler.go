package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"linetask/domain/dto"
	"linetask/domain/services"
	"linetask/pkg/logger"
	"linetask/pkg/utils"
)

type RecurringHandler struct {
	recurringService services.RecurringService
}

func NewRecurringHandler(recurringService services.RecurringService) *RecurringHandler {
	return &RecurringHandler{recurringService: recurringService}
}

func (h *RecurringHandler) Create(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	var req dto.CreateRecurringRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	template, err := h.recurringService.Create(ctx, user.ID, &req)
	if err != nil {
		return err
	}

	return utils.CreatedResponse(c, dto.RecurringToResponse(template, time.Now()))
}

func (h *RecurringHandler) Get(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := paramUUID(c, "id")
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid recurring task ID")
	}

	template, err := h.recurringService.Get(ctx, id)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, dto.RecurringToResponse(template, time.Now()))
}

func (h *RecurringHandler) List(c *fiber.Ctx) error {
	ctx := c.UserContext()
	offset, limit := parsePagination(c)

	templates, total, err := h.recurringService.List(ctx, offset, limit)
	if err != nil {
		return err
	}

	now := time.Now()
	responses := make([]dto.RecurringResponse, len(templates))
	for i, t := range templates {
		responses[i] = *dto.RecurringToResponse(t, now)
	}

	page := offset/limit + 1
	return utils.PaginatedSuccessResponse(c, responses, total, page, limit)
}

// ListByGroup: route อยู่ใต้ /groups/:id/recurring
func (h *RecurringHandler) ListByGroup(c *fiber.Ctx) error {
	ctx := c.UserContext()

	groupID, err := paramUUID(c, "id")
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid group ID")
	}

	templates, err := h.recurringService.ListByGroup(ctx, groupID)
	if err != nil {
		return err
	}

	now := time.Now()
	responses := make([]dto.RecurringResponse, len(templates))
	for i, t := range templates {
		responses[i] = *dto.RecurringToResponse(t, now)
	}
	return utils.SuccessResponse(c, responses)
}

func (h *RecurringHandler) Update(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := paramUUID(c, "id")
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid recurring task ID")
	}

	var req dto.UpdateRecurringRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	template, err := h.recurringService.Update(ctx, id, &req)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, dto.RecurringToResponse(template, time.Now()))
}

func (h *RecurringHandler) Toggle(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := paramUUID(c, "id")
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid recurring task ID")
	}

	template, err := h.recurringService.Toggle(ctx, id)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, dto.RecurringToResponse(template, time.Now()))
}

func (h *RecurringHandler) Delete(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := paramUUID(c, "id")
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid recurring task ID")
	}

	if err := h.recurringService.Delete(ctx, id); err != nil {
		return err
	}

	return utils.NoContentResponse(c)
}
