package services

import (
	"errors"
	"strings"

	"github.com/anjiri1684/digital_tests/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func httpError(status int, key string) error {
	return utils.NewHTTPError(status, key)
}

// isDuplicateKey recognises unique-constraint violations from both supported drivers,
// with or without gorm's error translation.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}

// duplicateUserError picks the conflict message for a unique-index race on users.
// The driver message names the column when untranslated; otherwise the written fields decide.
func duplicateUserError(err error, usernameSet, emailSet bool) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "email"):
		return httpError(fiber.StatusConflict, "User.email_exists")
	case strings.Contains(msg, "username"):
		return httpError(fiber.StatusConflict, "User.username_exists")
	case emailSet && !usernameSet:
		return httpError(fiber.StatusConflict, "User.email_exists")
	default:
		return httpError(fiber.StatusConflict, "User.username_exists")
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
