package routes

import (
	"strings"
	"time"

	"github.com/anjiri1684/digital_tests/handlers"
	"github.com/anjiri1684/digital_tests/middleware"
	"github.com/anjiri1684/digital_tests/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp builds the HTTP application with every route mounted.
func NewApp(h *handlers.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Digital Tests",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: middleware.ErrorHandler(h.Catalog),
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(h),
		AllowCredentials: true,
		AllowHeaders:     "Content-Type, Authorization, X-Requested-With, Accept-Language",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	if h.Metrics != nil {
		app.Use(h.Metrics.Middleware())
		app.Get("/metrics", h.Metrics.Handler())
	}
	app.Use(middleware.Localize(h.Catalog))

	app.Get("/health", func(c *fiber.Ctx) error {
		sqlDB, err := h.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.UserContext())
		}
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	PublicRoutes(app, h)
	UserRoutes(app, h)
	AuthRoutes(app, h)
	QuizRoutes(app, h)
	QuestionRoutes(app, h)
	ScoreRoutes(app, h)

	app.Use(func(c *fiber.Ctx) error {
		return utils.NewHTTPError(fiber.StatusNotFound, "Server.route_not_found")
	})
	return app
}

// allowedOrigins never returns a wildcard, since the session cookie travels with credentials.
func allowedOrigins(h *handlers.Handler) string {
	if origins := h.Settings.AllowedOrigins(); len(origins) > 0 {
		return strings.Join(origins, ",")
	}
	if h.Settings.FrontendURL != "" {
		return h.Settings.FrontendURL
	}
	return "http://localhost:5173"
}

// notFound answers unmatched GETs inside a router with a fixed plain-text body.
func notFound(body string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).SendString(body)
	}
}
