package handlers

import (
	"log"
	"strings"

	"github.com/anjiri1684/digital_tests/middleware"
	"github.com/anjiri1684/digital_tests/notifications"
	"github.com/anjiri1684/digital_tests/services"
	"github.com/anjiri1684/digital_tests/utils"
	"github.com/gofiber/fiber/v2"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ForgetPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := services.Authenticate(h.db(c), services.LoginInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	token, claims, err := h.Tokens.IssueSession(user.ID, user.Role)
	if err != nil {
		return err
	}
	middleware.SetSessionCookie(c, token, claims.ExpiresAt.Time)

	profile, err := services.LoadProfile(h.db(c), user.ID)
	if err != nil {
		return err
	}
	return h.respond(c, fiber.StatusOK, "Auth.login_success", profile)
}

// Logout clears the cookie and revokes the session until it would have expired.
func (h *Handler) Logout(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	if err := h.Revocations.Revoke(c.UserContext(), id.TokenID, id.ExpiresAt); err != nil {
		log.Printf("🔥 Failed to revoke session %s: %v", id.TokenID, err)
		return err
	}
	middleware.ExpireSessionCookie(c)
	return h.respond(c, fiber.StatusOK, "Auth.logout_success", nil)
}

func (h *Handler) ForgetPassword(c *fiber.Ctx) error {
	var req ForgetPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	email := services.NormalizeEmail(req.Email)
	if email == "" {
		return utils.NewHTTPError(fiber.StatusBadRequest, "Auth.email_required")
	}

	user, err := services.PasswordResetCandidate(h.db(c), email)
	if err != nil {
		return err
	}
	token, err := h.Tokens.IssueReset(email)
	if err != nil {
		return err
	}
	_ = h.notify(c, user.Email, "Auth.reset_password_subject", notifications.ForgetPassword, notifications.Vars{Name: user.Name, Token: token})

	return h.respond(c, fiber.StatusOK, "Auth.check_email_reset_password", nil)
}

func (h *Handler) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if len(req.Password) < 6 {
		return utils.NewHTTPError(fiber.StatusBadRequest, "Auth.password_length")
	}
	email, err := h.Tokens.ParseReset(strings.TrimSpace(req.Token))
	if err != nil {
		return utils.NewHTTPError(fiber.StatusUnauthorized, "Auth.invalid_or_expired_token")
	}

	user, err := services.ResetPassword(h.db(c), email, req.Password)
	if err != nil {
		return err
	}
	_ = h.notify(c, user.Email, "Auth.password_reset_success_subject", notifications.ResetPasswordSuccess, notifications.Vars{Name: user.Name})

	return h.respond(c, fiber.StatusOK, "Auth.password_reset_success", nil)
}
