package routes

import (
	"github.com/gofiber/fiber/v2"

	"linetask/interfaces/api/handlers"
	"linetask/interfaces/api/middleware"
)

// SetupAdminRoutes: maintenance escape hatches - admin role เท่านั้น
func SetupAdminRoutes(api fiber.Router, h *handlers.Handlers, jwtSecret string) {
	admin := api.Group("/admin")
	admin.Use(middleware.Protected(jwtSecret), middleware.AdminOnly())

	admin.Post("/maintenance/backfill-submitted", h.MaintenanceHandler.BackfillSubmitted)
	admin.Post("/maintenance/complete-overdue", h.MaintenanceHandler.CompleteOverdue)
	admin.Post("/maintenance/sweep-overdue", h.MaintenanceHandler.SweepOverdue)
	admin.Post("/maintenance/resync-kpi", h.MaintenanceHandler.ResyncKPI)
	admin.Post("/maintenance/run-recurring", h.MaintenanceHandler.RunRecurring)
	admin.Post("/tasks/:id/force-submit", h.MaintenanceHandler.ForceSubmit)
	admin.Delete("/groups/:id/tasks", h.GroupHandler.PurgeGroupTasks)
}
