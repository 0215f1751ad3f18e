package routes

import (
	"github.com/gofiber/fiber/v2"

	"linetask/interfaces/api/handlers"
	"linetask/interfaces/api/middleware"
)

func SetupRecurringRoutes(api fiber.Router, h *handlers.Handlers, jwtSecret string) {
	recurring := api.Group("/recurring-tasks")
	recurring.Use(middleware.Protected(jwtSecret))

	recurring.Post("/", h.RecurringHandler.Create)
	recurring.Get("/", h.RecurringHandler.List)
	recurring.Get("/:id", h.RecurringHandler.Get)
	recurring.Put("/:id", h.RecurringHandler.Update)
	recurring.Post("/:id/toggle", h.RecurringHandler.Toggle)
	recurring.Delete("/:id", h.RecurringHandler.Delete)
}
