package handlers

import (
	"path/filepath"
	"strings"

	"github.com/anjiri1684/digital_tests/utils"
	"github.com/gofiber/fiber/v2"
)

// GetLocale serves the flat message catalog of one language for the frontend.
func (h *Handler) GetLocale(c *fiber.Ctx) error {
	lang := filepath.Base(filepath.Clean(c.Params("lang")))
	lang = strings.TrimSuffix(lang, ".json")

	messages, ok := h.Catalog.Raw(lang)
	if !ok {
		return utils.NewHTTPError(fiber.StatusNotFound, "Server.language_not_found")
	}
	return c.JSON(messages)
}
