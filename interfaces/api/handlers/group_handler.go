package handlers

import (
	"github.com/gofiber/fiber/v2"

	"linetask/domain/dto"
	"linetask/domain/services"
	"linetask/pkg/utils"
)

type GroupHandler struct {
	groupService    services.GroupService
	workflowService services.WorkflowService
}

func NewGroupHandler(groupService services.GroupService, workflowService services.WorkflowService) *GroupHandler {
	return &GroupHandler{
		groupService:    groupService,
		workflowService: workflowService,
	}
}

func (h *GroupHandler) ListGroups(c *fiber.Ctx) error {
	ctx := c.UserContext()
	offset, limit := parsePagination(c)

	groups, total, err := h.groupService.List(ctx, offset, limit)
	if err != nil {
		return err
	}

	responses := make([]dto.GroupResponse, len(groups))
	for i, g := range groups {
		responses[i] = dto.GroupToResponse(g)
	}

	page := offset/limit + 1
	return utils.PaginatedSuccessResponse(c, responses, total, page, limit)
}

func (h *GroupHandler) GetGroup(c *fiber.Ctx) error {
	ctx := c.UserContext()

	groupID, err := paramUUID(c, "id")
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid group ID")
	}

	group, err := h.groupService.Get(ctx, groupID)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, dto.GroupToResponse(group))
}

func (h *GroupHandler) ListGroupTasks(c *fiber.Ctx) error {
	ctx := c.UserContext()

	groupID, err := paramUUID(c, "id")
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid group ID")
	}

	offset, limit := parsePagination(c)
	tasks, total, err := h.workflowService.ListGroupTasks(ctx, groupID, offset, limit)
	if err != nil {
		return err
	}

	page := offset/limit + 1
	return utils.PaginatedSuccessResponse(c, dto.TaskListToResponse(tasks), total, page, limit)
}

// PurgeGroupTasks ลบ task ทั้งหมดของ group พร้อมไฟล์แนบ (admin เท่านั้น)
func (h *GroupHandler) PurgeGroupTasks(c *fiber.Ctx) error {
	ctx := c.UserContext()

	groupID, err := paramUUID(c, "id")
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid group ID")
	}

	result, err := h.workflowService.DeleteGroupTasks(ctx, groupID)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, dto.PurgeGroupTasksResponse{
		Deleted: result.Deleted,
		Errors:  result.Errors,
	})
}
