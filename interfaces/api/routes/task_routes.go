package routes

import (
	"github.com/gofiber/fiber/v2"

	"linetask/interfaces/api/handlers"
	"linetask/interfaces/api/middleware"
)

func SetupTaskRoutes(api fiber.Router, h *handlers.Handlers, jwtSecret string) {
	tasks := api.Group("/tasks")
	tasks.Use(middleware.Protected(jwtSecret))

	tasks.Post("/", h.TaskHandler.CreateTask)
	tasks.Get("/", h.TaskHandler.ListTasks)
	tasks.Get("/:id", h.TaskHandler.GetTask)

	// workflow operations
	tasks.Post("/:id/submit", h.TaskHandler.SubmitTask)
	tasks.Post("/:id/approve", h.TaskHandler.ApproveTask)
	tasks.Post("/:id/reject", h.TaskHandler.RejectTask)
	tasks.Post("/:id/complete", h.TaskHandler.CompleteTask)
	tasks.Post("/:id/extension", h.TaskHandler.RequestExtension)
	tasks.Post("/:id/extension/approve", h.TaskHandler.ApproveExtension)

	// attachments
	tasks.Post("/:id/files", h.FileHandler.UploadToTask)
	tasks.Get("/:id/files", h.FileHandler.ListTaskFiles)
}
