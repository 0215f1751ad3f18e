package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"linetask/domain/dto"
	"linetask/domain/models"
	"linetask/domain/services"
	"linetask/pkg/logger"
	"linetask/pkg/utils"
)

type TaskHandler struct {
	workflowService services.WorkflowService
}

func NewTaskHandler(workflowService services.WorkflowService) *TaskHandler {
	return &TaskHandler{workflowService: workflowService}
}

func parsePagination(c *fiber.Ctx) (offset, limit int) {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ = strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return (page - 1) * limit, limit
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}

func (h *TaskHandler) CreateTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	task, err := h.workflowService.CreateTask(ctx, user.ID, &req)
	if err != nil {
		return err
	}

	return utils.CreatedResponse(c, dto.TaskToResponse(task))
}

func (h *TaskHandler) GetTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	taskID, err := paramUUID(c, "id")
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	task, err := h.workflowService.GetTask(ctx, taskID)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, dto.TaskToResponse(task))
}

func (h *TaskHandler) ListTasks(c *fiber.Ctx) error {
	ctx := c.UserContext()
	offset, limit := parsePagination(c)

	tasks, total, err := h.workflowService.ListTasks(ctx, offset, limit)
	if err != nil {
		return err
	}

	page := offset/limit + 1
	return utils.PaginatedSuccessResponse(c, dto.TaskListToResponse(tasks), total, page, limit)
}

// SubmitTask บันทึกหลักฐานการส่งงานจาก dashboard (submitter ระบุตัวตนเสมอ)
func (h *TaskHandler) SubmitTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, err := paramUUID(c, "id")
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	var req dto.SubmitTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	task, err := h.workflowService.RecordSubmission(ctx, taskID,
		models.IdentifiedSubmitter(user.ID.String()), req.FileIDs, req.Comment, req.Links)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, dto.TaskToResponse(task))
}

func (h *TaskHandler) ApproveTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, err := paramUUID(c, "id")
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	task, err := h.workflowService.ApproveReview(ctx, taskID, user.ID)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, dto.TaskToResponse(task))
}

func (h *TaskHandler) RejectTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, err := paramUUID(c, "id")
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	var req dto.RejectTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	task, err := h.workflowService.RejectAndExtend(ctx, taskID, user.ID, req.Comment, req.ExtensionDays)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, dto.TaskToResponse(task))
}

func (h *TaskHandler) CompleteTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, err := paramUUID(c, "id")
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	task, err := h.workflowService.CompleteTask(ctx, taskID, user.ID)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, dto.TaskToResponse(task))
}

func (h *TaskHandler) RequestExtension(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, err := paramUUID(c, "id")
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	var req dto.RequestExtensionRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	task, err := h.workflowService.RequestExtension(ctx, taskID,
		models.IdentifiedSubmitter(user.ID.String()), req.Reason)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, dto.TaskToResponse(task))
}

func (h *TaskHandler) ApproveExtension(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, err := paramUUID(c, "id")
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	var req dto.ApproveExtensionRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	newDue, err := time.Parse(time.RFC3339, req.NewDueTime)
	if err != nil {
		return utils.BadRequestResponse(c, "newDueTime must be RFC 3339")
	}

	task, err := h.workflowService.ApproveExtension(ctx, taskID, user.ID, newDue)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, dto.TaskToResponse(task))
}
