package routes

import (
	"github.com/gofiber/fiber/v2"

	"linetask/pkg/config"
)

func SetupHealthRoutes(app *fiber.App, cfg *config.Config) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"name": cfg.App.Name,
			"env":  cfg.App.Env,
		})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
