package routes

import (
	"github.com/gofiber/fiber/v2"

	"linetask/interfaces/api/handlers"
	"linetask/pkg/config"
)

func SetupRoutes(app *fiber.App, h *handlers.Handlers, cfg *config.Config) {
	// Setup health and root routes
	SetupHealthRoutes(app, cfg)

	// Webhook อยู่นอก /api/v1 และนอก JWT (ใช้ signature ของ platform แทน)
	SetupWebhookRoutes(app, h)

	// API version group
	api := app.Group("/api/v1")

	jwtSecret := cfg.JWT.Secret

	SetupAuthRoutes(api, h, jwtSecret)
	SetupTaskRoutes(api, h, jwtSecret)
	SetupGroupRoutes(api, h, jwtSecret)
	SetupFileRoutes(api, h, jwtSecret)
	SetupRecurringRoutes(api, h, jwtSecret)
	SetupAdminRoutes(api, h, jwtSecret)
}
