package routes

import (
	"github.com/anjiri1684/digital_tests/handlers"
	"github.com/anjiri1684/digital_tests/middleware"
	"github.com/gofiber/fiber/v2"
)

func UserRoutes(app *fiber.App, h *handlers.Handler) {
	loggedIn := middleware.IsLoggedIn(h.Tokens, h.Revocations)

	users := app.Group("/api/users")
	users.Post("/register", middleware.ClearSessionCookie(), middleware.RequireLoggedOut(h.Tokens, h.Revocations), h.RegisterUser)
	users.Get("/activate", h.ActivateAccount)
	users.Post("/resend-activation-email", h.ResendActivationEmail)
	users.Get("/user", loggedIn, h.GetUser)
	users.Put("/update-user", loggedIn, h.UpdateUser)
	users.Delete("/delete-account", loggedIn, h.DeleteAccount)

	users.Get("/*", notFound("No users routes found!"))
}
