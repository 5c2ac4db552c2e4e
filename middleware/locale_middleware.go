package middleware

import (
	"errors"
	"log"

	"github.com/anjiri1684/digital_tests/locales"
	"github.com/anjiri1684/digital_tests/utils"
	"github.com/gofiber/fiber/v2"
)

const langKey = "lang"

// Localize negotiates the response language from Accept-Language.
func Localize(catalog *locales.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(langKey, catalog.Negotiate(c.Get(fiber.HeaderAcceptLanguage)))
		return c.Next()
	}
}

// Lang returns the negotiated language, or fallback when Localize did not run.
func Lang(c *fiber.Ctx, fallback string) string {
	if lang, ok := c.Locals(langKey).(string); ok && lang != "" {
		return lang
	}
	return fallback
}

// ErrorHandler writes every error as a localized {"message": ...} body.
func ErrorHandler(catalog *locales.Catalog) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		lang := Lang(c, catalog.Fallback())
		code := fiber.StatusInternalServerError
		key := "Server.internal_error"
		var data map[string]interface{}

		var he *utils.HTTPError
		var fe *fiber.Error
		switch {
		case errors.As(err, &he):
			code, key, data = he.Status, he.Key, he.Data
		case errors.As(err, &fe):
			code = fe.Code
			switch fe.Code {
			case fiber.StatusNotFound:
				key = "Server.route_not_found"
			case fiber.StatusInternalServerError:
			default:
				return c.Status(code).JSON(fiber.Map{"message": fe.Message})
			}
		}

		if code >= fiber.StatusInternalServerError {
			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
		}
		return c.Status(code).JSON(fiber.Map{"message": catalog.Translate(lang, key, data)})
	}
}
