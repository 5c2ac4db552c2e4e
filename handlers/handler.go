package handlers

import (
	"errors"
	"log"
	"regexp"

	"github.com/anjiri1684/digital_tests/auth"
	config "github.com/anjiri1684/digital_tests/configs"
	"github.com/anjiri1684/digital_tests/locales"
	"github.com/anjiri1684/digital_tests/metrics"
	"github.com/anjiri1684/digital_tests/middleware"
	"github.com/anjiri1684/digital_tests/notifications"
	"github.com/anjiri1684/digital_tests/sessions"
	"github.com/anjiri1684/digital_tests/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var validate = newValidator()

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return v
}

// Handler carries the dependencies shared by every route handler.
type Handler struct {
	DB          *gorm.DB
	Tokens      *auth.Tokens
	Catalog     *locales.Catalog
	Mailer      notifications.Mailer
	Revocations sessions.RevocationStore
	Metrics     *metrics.Metrics
	Settings    config.Settings
}

func (h *Handler) db(c *fiber.Ctx) *gorm.DB {
	return h.DB.WithContext(c.UserContext())
}

func (h *Handler) lang(c *fiber.Ctx) string {
	return middleware.Lang(c, h.Catalog.Fallback())
}

func (h *Handler) t(c *fiber.Ctx, key string, data map[string]interface{}) string {
	return h.Catalog.Translate(h.lang(c), key, data)
}

// respond writes the usual {message, data} envelope. A nil data becomes an empty object.
func (h *Handler) respond(c *fiber.Ctx, status int, key string, data interface{}) error {
	if data == nil {
		data = fiber.Map{}
	}
	return c.Status(status).JSON(fiber.Map{
		"message": h.t(c, key, nil),
		"data":    data,
	})
}

func identity(c *fiber.Ctx) (middleware.Identity, error) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return middleware.Identity{}, utils.NewHTTPError(fiber.StatusUnauthorized, "Auth.middleware.not_logged_in")
	}
	return id, nil
}

func parseID(raw, key string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, utils.NewHTTPError(fiber.StatusBadRequest, key)
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return utils.NewHTTPError(fiber.StatusBadRequest, "Server.invalid_body")
	}
	return nil
}

// notify renders and sends an email, logging instead of failing when delivery breaks.
func (h *Handler) notify(c *fiber.Ctx, to *string, subjectKey string, id notifications.TemplateID, vars notifications.Vars) error {
	if to == nil || *to == "" {
		return nil
	}
	vars.FrontendURL = h.Settings.FrontendURL
	err := notifications.Deliver(c.UserContext(), h.Mailer, *to, h.t(c, subjectKey, nil), id, h.lang(c), vars)
	if err != nil {
		log.Printf("🔥 Failed to send %s email to %s: %v", id, *to, err)
	}
	return err
}

// validationKey maps the first failed rule of a registration request to its message key.
func validationKey(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Server.invalid_body"
	}
	fe := verrs[0]
	switch fe.Field() {
	case "Name":
		if fe.Tag() == "required" {
			return "Validation.RegisterValidation.name_missing"
		}
		return "Validation.RegisterValidation.name_length"
	case "Username":
		if fe.Tag() == "username" {
			return "Validation.RegisterValidation.username_format"
		}
		return "Validation.RegisterValidation.username_length"
	case "Email":
		return "Validation.RegisterValidation.invalid_email"
	case "Password":
		if fe.Tag() == "required" {
			return "Validation.RegisterValidation.password_missing"
		}
		return "Validation.RegisterValidation.password_length"
	}
	return "Server.invalid_body"
}
