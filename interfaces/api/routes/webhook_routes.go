package routes

import (
	"github.com/gofiber/fiber/v2"

	"linetask/interfaces/api/handlers"
)

func SetupWebhookRoutes(app *fiber.App, h *handlers.Handlers) {
	app.Post("/webhook/line", h.WebhookHandler.Handle)
}
