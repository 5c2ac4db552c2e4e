package handlers

import (
	"errors"
	"log"

	"github.com/anjiri1684/digital_tests/auth"
	"github.com/anjiri1684/digital_tests/middleware"
	"github.com/anjiri1684/digital_tests/models"
	"github.com/anjiri1684/digital_tests/notifications"
	"github.com/anjiri1684/digital_tests/services"
	"github.com/anjiri1684/digital_tests/utils"
	"github.com/gofiber/fiber/v2"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Username string `json:"username" validate:"omitempty,min=3,max=30,username"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=6,max=50"`
}

type ResendActivationRequest struct {
	Email string `json:"email"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

func (h *Handler) RegisterUser(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	req.Email = services.NormalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		return utils.NewHTTPError(fiber.StatusUnprocessableEntity, validationKey(err))
	}

	user, err := services.RegisterUser(h.db(c), services.RegisterInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	if user.Email == nil {
		return h.respond(c, fiber.StatusCreated, "User.registration_success_username", nil)
	}

	token, err := h.Tokens.IssueActivation(user.ID)
	if err != nil {
		return err
	}
	_ = h.notify(c, user.Email, "User.account_activation_subject", notifications.Activation, notifications.Vars{Name: user.Name, Token: token})
	return h.respond(c, fiber.StatusCreated, "User.registration_success_email", nil)
}

func (h *Handler) ActivateAccount(c *fiber.Ctx) error {
	raw := c.Query("token")
	if raw == "" {
		return utils.NewHTTPError(fiber.StatusNotFound, "User.activation_token_required")
	}
	userID, err := h.Tokens.ParseActivation(raw)
	if errors.Is(err, auth.ErrTokenExpired) {
		return utils.NewHTTPError(fiber.StatusUnauthorized, "User.token_expired")
	}
	if err != nil {
		return utils.NewHTTPError(fiber.StatusUnauthorized, "User.token_invalid")
	}

	user, alreadyActive, err := services.ActivateUser(h.db(c), userID)
	if err != nil {
		return err
	}
	if alreadyActive {
		return h.respond(c, fiber.StatusOK, "User.account_already_active", nil)
	}

	_ = h.notify(c, user.Email, "User.account_activation_success_subject", notifications.ActivationSuccess, notifications.Vars{Name: user.Name})

	profile, err := services.LoadProfile(h.db(c), user.ID)
	if err != nil {
		return err
	}
	return h.respond(c, fiber.StatusOK, "User.account_activated_successfully", profile)
}

func (h *Handler) ResendActivationEmail(c *fiber.Ctx) error {
	var req ResendActivationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := services.PendingActivation(h.db(c), req.Email)
	if err != nil {
		return err
	}
	token, err := h.Tokens.IssueActivation(user.ID)
	if err != nil {
		return err
	}
	_ = h.notify(c, user.Email, "User.account_activation_subject", notifications.Activation, notifications.Vars{Name: user.Name, Token: token})
	return h.respond(c, fiber.StatusOK, "User.resend_activation_email_success", nil)
}

func (h *Handler) GetUser(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	user, err := services.LoadProfile(h.db(c), id.UserID)
	if err != nil {
		return err
	}
	return h.respond(c, fiber.StatusOK, "User.user_retrieved_successfully", user)
}

// UpdateUser saves profile changes. A new email must get its activation mail out before anything is stored.
func (h *Handler) UpdateUser(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req UpdateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	reactivate := false
	user, err := services.UpdateUser(h.db(c), id.UserID, services.UpdateUserInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
	}, func(u *models.User) error {
		token, err := h.Tokens.IssueActivation(u.ID)
		if err != nil {
			return err
		}
		if err := h.notify(c, u.Email, "User.account_activation_subject", notifications.Activation, notifications.Vars{Name: u.Name, Token: token}); err != nil {
			return utils.NewHTTPError(fiber.StatusInternalServerError, "User.email_sending_failed")
		}
		reactivate = true
		return nil
	})
	if err != nil {
		return err
	}
	if reactivate {
		return h.respond(c, fiber.StatusOK, "User.user_updated_reactivate", user)
	}
	return h.respond(c, fiber.StatusOK, "User.user_updated_successfully", user)
}

func (h *Handler) DeleteAccount(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	user, err := services.DeleteAccount(h.db(c), id.UserID)
	if err != nil {
		return err
	}

	_ = h.notify(c, user.Email, "User.goodbye_subject", notifications.DeleteAccount, notifications.Vars{Name: user.Name})

	if err := h.Revocations.Revoke(c.UserContext(), id.TokenID, id.ExpiresAt); err != nil {
		log.Printf("🔥 Failed to revoke session %s: %v", id.TokenID, err)
	}
	middleware.ExpireSessionCookie(c)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": h.t(c, "User.account_deleted_successfully", nil)})
}
