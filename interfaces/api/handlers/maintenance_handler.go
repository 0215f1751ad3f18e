package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"linetask/domain/services"
	"linetask/pkg/utils"
)

// MaintenanceHandler รวม admin endpoint สำหรับซ่อม state ที่ drift
// ทุก endpoint ต้องผ่าน AdminOnly middleware
type MaintenanceHandler struct {
	maintenanceService services.MaintenanceService
	kpiService         services.KPIService
	recurringService   services.RecurringService
	workflowService    services.WorkflowService
}

func NewMaintenanceHandler(
	maintenanceService services.MaintenanceService,
	kpiService services.KPIService,
	recurringService services.RecurringService,
	workflowService services.WorkflowService,
) *MaintenanceHandler {
	return &MaintenanceHandler{
		maintenanceService: maintenanceService,
		kpiService:         kpiService,
		recurringService:   recurringService,
		workflowService:    workflowService,
	}
}

// BackfillSubmitted ซ่อม task ที่มีหลักฐานส่งงานแต่ status ค้าง
func (h *MaintenanceHandler) BackfillSubmitted(c *fiber.Ctx) error {
	ctx := c.UserContext()

	fixed, err := h.maintenanceService.BackfillSubmittedStatuses(ctx)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, fiber.Map{"fixed": fixed})
}

// ForceSubmit สร้าง submission แทน assignee
func (h *MaintenanceHandler) ForceSubmit(c *fiber.Ctx) error {
	ctx := c.UserContext()

	taskID, err := paramUUID(c, "id")
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	var body struct {
		Comment string `json:"comment"`
	}
	if err := c.BodyParser(&body); err != nil && len(c.Body()) > 0 {
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	task, err := h.maintenanceService.ForceSubmit(ctx, taskID, body.Comment)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, fiber.Map{"taskId": task.ID, "status": task.Status})
}

// CompleteOverdue ปิด task ที่ overdue ทั้งหมด
func (h *MaintenanceHandler) CompleteOverdue(c *fiber.Ctx) error {
	ctx := c.UserContext()

	completed, err := h.maintenanceService.CompleteOverdueTasks(ctx)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, fiber.Map{"completed": completed})
}

// ResyncKPI backfill KPI record ที่หายจาก crash ระหว่างทาง
func (h *MaintenanceHandler) ResyncKPI(c *fiber.Ctx) error {
	ctx := c.UserContext()

	result, err := h.kpiService.Resync(ctx)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, result)
}

// RunRecurring สั่ง generation tick ทันที (นอกรอบ scheduler)
func (h *MaintenanceHandler) RunRecurring(c *fiber.Ctx) error {
	ctx := c.UserContext()

	result, err := h.recurringService.GenerateDue(ctx, time.Now())
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, result)
}

// SweepOverdue สั่ง overdue sweep ทันที
func (h *MaintenanceHandler) SweepOverdue(c *fiber.Ctx) error {
	ctx := c.UserContext()

	swept, err := h.workflowService.SweepOverdue(ctx)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, fiber.Map{"marked": swept})
}
