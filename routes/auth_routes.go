package routes

import (
	"github.com/anjiri1684/digital_tests/handlers"
	"github.com/anjiri1684/digital_tests/middleware"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App, h *handlers.Handler) {
	auths := app.Group("/api/auths")
	auths.Post("/login", middleware.ClearSessionCookie(), middleware.RequireLoggedOut(h.Tokens, h.Revocations), h.Login)
	auths.Post("/logout", middleware.IsLoggedIn(h.Tokens, h.Revocations), h.Logout)
	auths.Post("/forget-password", h.ForgetPassword)
	auths.Put("/reset-password", h.ResetPassword)

	auths.Get("/*", notFound("No auths routes found"))
}
