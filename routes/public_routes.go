package routes

import (
	"github.com/anjiri1684/digital_tests/handlers"
	"github.com/gofiber/fiber/v2"
)

func PublicRoutes(app *fiber.App, h *handlers.Handler) {
	api := app.Group("/api")

	api.Get("/locales/:lang", h.GetLocale)
}
