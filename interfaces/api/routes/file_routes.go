package routes

import (
	"github.com/gofiber/fiber/v2"

	"linetask/interfaces/api/handlers"
	"linetask/interfaces/api/middleware"
)

func SetupFileRoutes(api fiber.Router, h *handlers.Handlers, jwtSecret string) {
	files := api.Group("/files")
	files.Use(middleware.Protected(jwtSecret))

	files.Get("/:id/download", h.FileHandler.Download)
}
