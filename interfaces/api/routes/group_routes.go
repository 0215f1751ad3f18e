package routes

import (
	"github.com/gofiber/fiber/v2"

	"linetask/interfaces/api/handlers"
	"linetask/interfaces/api/middleware"
)

func SetupGroupRoutes(api fiber.Router, h *handlers.Handlers, jwtSecret string) {
	groups := api.Group("/groups")
	groups.Use(middleware.Protected(jwtSecret))

	groups.Get("/", h.GroupHandler.ListGroups)
	groups.Get("/:id", h.GroupHandler.GetGroup)
	groups.Get("/:id/tasks", h.GroupHandler.ListGroupTasks)
	groups.Get("/:id/leaderboard", h.KPIHandler.Leaderboard)
	groups.Get("/:id/recurring", h.RecurringHandler.ListByGroup)
}
