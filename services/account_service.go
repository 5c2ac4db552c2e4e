package services

import (
	"fmt"
	"strings"

	"github.com/anjiri1684/digital_tests/auth"
	"github.com/anjiri1684/digital_tests/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

// NormalizeEmail lowercases and trims; an empty result means "no email".
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}

// RegisterUser creates an inactive account. Username and email are both optional but not both absent.
func RegisterUser(db *gorm.DB, in RegisterInput) (*models.User, error) {
	username := optional(in.Username)
	email := optional(NormalizeEmail(in.Email))
	if username == nil && email == nil {
		return nil, httpError(fiber.StatusUnprocessableEntity, "Validation.RegisterValidation.email_or_username_required")
	}

	if username != nil {
		taken, err := exists(db, &models.User{}, "username = ?", *username)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, httpError(fiber.StatusConflict, "User.username_exists")
		}
	}
	if email != nil {
		taken, err := exists(db, &models.User{}, "email = ?", *email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, httpError(fiber.StatusConflict, "User.email_exists")
		}
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Name:     strings.TrimSpace(in.Name),
		Username: username,
		Email:    email,
		Password: hashed,
		Role:     models.RoleUser,
		Active:   false,
	}
	if err := db.Create(&user).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, duplicateUserError(err, username != nil, email != nil)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// ActivateUser flips the active flag. The boolean reports whether the account was already active.
func ActivateUser(db *gorm.DB, userID uuid.UUID) (*models.User, bool, error) {
	user, err := findUser(db, userID)
	if err != nil {
		return nil, false, err
	}
	if user.Active {
		return user, true, nil
	}
	user.Active = true
	if err := db.Model(user).Update("active", true).Error; err != nil {
		return nil, false, fmt.Errorf("activate user: %w", err)
	}
	return user, false, nil
}

// PendingActivation returns the inactive account registered under email.
func PendingActivation(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.Where("email = ?", NormalizeEmail(email)).First(&user).Error; err != nil {
		if isNotFound(err) {
			return nil, httpError(fiber.StatusNotFound, "User.user_not_found_with_email")
		}
		return nil, err
	}
	if user.Active {
		return nil, httpError(fiber.StatusBadRequest, "User.account_already_active")
	}
	return &user, nil
}

type LoginInput struct {
	Email    string
	Username string
	Password string
}

// Authenticate resolves the account by email, falling back to username, and checks the password.
func Authenticate(db *gorm.DB, in LoginInput) (*models.User, error) {
	if in.Password == "" {
		return nil, httpError(fiber.StatusBadRequest, "Auth.Service.password_required")
	}
	email := NormalizeEmail(in.Email)
	username := strings.TrimSpace(in.Username)
	if email == "" && username == "" {
		return nil, httpError(fiber.StatusBadRequest, "Auth.Service.email_or_username_required")
	}

	var user models.User
	query := db.Where("username = ?", username)
	if email != "" {
		query = db.Where("email = ?", email)
	}
	if err := query.First(&user).Error; err != nil {
		if isNotFound(err) {
			return nil, httpError(fiber.StatusUnauthorized, "Auth.Service.invalid_credentials")
		}
		return nil, err
	}
	if err := auth.CheckPassword(user.Password, in.Password); err != nil {
		return nil, httpError(fiber.StatusUnauthorized, "Auth.Service.invalid_credentials")
	}
	return &user, nil
}

// PasswordResetCandidate returns the active account that may receive a reset link.
func PasswordResetCandidate(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.Where("email = ?", NormalizeEmail(email)).First(&user).Error; err != nil {
		if isNotFound(err) {
			return nil, httpError(fiber.StatusNotFound, "Auth.user_not_found_register")
		}
		return nil, err
	}
	if !user.Active {
		return nil, httpError(fiber.StatusForbidden, "Auth.user_inactive")
	}
	return &user, nil
}

func ResetPassword(db *gorm.DB, email, password string) (*models.User, error) {
	if len(password) < 6 {
		return nil, httpError(fiber.StatusBadRequest, "Auth.password_length")
	}
	var user models.User
	if err := db.Where("email = ?", NormalizeEmail(email)).First(&user).Error; err != nil {
		if isNotFound(err) {
			return nil, httpError(fiber.StatusBadRequest, "Auth.invalid_token_or_user_not_found")
		}
		return nil, err
	}
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := db.Model(&user).Update("password", hashed).Error; err != nil {
		return nil, fmt.Errorf("update password: %w", err)
	}
	return &user, nil
}

// LoadProfile returns the user with its owned quiz ids and library quiz ids filled in.
func LoadProfile(db *gorm.DB, userID uuid.UUID) (*models.User, error) {
	user, err := findUser(db, userID)
	if err != nil {
		return nil, err
	}
	if err := fillQuizLists(db, user); err != nil {
		return nil, err
	}
	return user, nil
}

func fillQuizLists(db *gorm.DB, user *models.User) error {
	var owned, library []uuid.UUID
	if err := db.Model(&models.Quiz{}).Where("user_id = ?", user.ID).Order("created_at ASC").Pluck("id", &owned).Error; err != nil {
		return fmt.Errorf("load owned quizzes: %w", err)
	}
	if err := db.Model(&models.LibraryEntry{}).Where("user_id = ?", user.ID).Order("created_at ASC").Pluck("quiz_id", &library).Error; err != nil {
		return fmt.Errorf("load library: %w", err)
	}
	user.Quizzes = append([]uuid.UUID{}, owned...)
	user.Library = append([]uuid.UUID{}, library...)
	return nil
}

type UpdateUserInput struct {
	Name     *string
	Username *string
	Email    *string
}

// UpdateUser applies profile changes. A new email deactivates the account and onEmailChange
// runs before anything is saved; if it fails the update is abandoned.
func UpdateUser(db *gorm.DB, userID uuid.UUID, in UpdateUserInput, onEmailChange func(*models.User) error) (*models.User, error) {
	user, err := findUser(db, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		user.Name = strings.TrimSpace(*in.Name)
	}

	usernameChanged := false
	if username := optional(deref(in.Username)); username != nil {
		usernameChanged = user.Username == nil || *user.Username != *username
		var other models.User
		err := db.Where("username = ?", *username).First(&other).Error
		if err == nil && other.ID != user.ID {
			return nil, httpError(fiber.StatusConflict, "User.username_exists")
		}
		if err != nil && !isNotFound(err) {
			return nil, err
		}
		user.Username = username
	}

	emailChanged := false
	if email := optional(NormalizeEmail(deref(in.Email))); email != nil && (user.Email == nil || *user.Email != *email) {
		var other models.User
		err := db.Where("email = ?", *email).First(&other).Error
		if err == nil && other.ID != user.ID {
			return nil, httpError(fiber.StatusConflict, "User.email_exists")
		}
		if err != nil && !isNotFound(err) {
			return nil, err
		}
		user.Email = email
		user.Active = false
		emailChanged = true
	}

	if emailChanged && onEmailChange != nil {
		if err := onEmailChange(user); err != nil {
			return nil, err
		}
	}

	if err := db.Model(user).Select("name", "username", "email", "active").Updates(user).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, duplicateUserError(err, usernameChanged, emailChanged)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	if err := fillQuizLists(db, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the user and everything hanging off it in one transaction:
// owned quizzes with their questions, scores and library entries, plus the user's own
// scores and library.
func DeleteAccount(db *gorm.DB, userID uuid.UUID) (*models.User, error) {
	user, err := findUser(db, userID)
	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var quizIDs []uuid.UUID
		if err := tx.Model(&models.Quiz{}).Where("user_id = ?", userID).Pluck("id", &quizIDs).Error; err != nil {
			return err
		}

		var scoreIDs []uuid.UUID
		scores := tx.Model(&models.Score{}).Where("user_id = ?", userID)
		if len(quizIDs) > 0 {
			scores = tx.Model(&models.Score{}).Where("user_id = ? OR quiz_id IN ?", userID, quizIDs)
		}
		if err := scores.Pluck("id", &scoreIDs).Error; err != nil {
			return err
		}
		if err := deleteScores(tx, scoreIDs); err != nil {
			return err
		}

		if len(quizIDs) > 0 {
			if err := tx.Where("quiz_id IN ?", quizIDs).Delete(&models.Question{}).Error; err != nil {
				return err
			}
			if err := tx.Where("quiz_id IN ?", quizIDs).Delete(&models.LibraryEntry{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", quizIDs).Delete(&models.Quiz{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.LibraryEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", userID).Error
	})
	if err != nil {
		return nil, fmt.Errorf("delete account: %w", err)
	}
	return user, nil
}

func findUser(db *gorm.DB, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if isNotFound(err) {
			return nil, httpError(fiber.StatusNotFound, "User.user_not_found")
		}
		return nil, err
	}
	return &user, nil
}

// FindUser loads a user by id, mapping a missing row to User.user_not_found.
func FindUser(db *gorm.DB, userID uuid.UUID) (*models.User, error) {
	return findUser(db, userID)
}

func exists(db *gorm.DB, model interface{}, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := db.Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func deleteScores(tx *gorm.DB, scoreIDs []uuid.UUID) error {
	if len(scoreIDs) == 0 {
		return nil
	}
	if err := tx.Where("score_id IN ?", scoreIDs).Delete(&models.ScoreAnswer{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", scoreIDs).Delete(&models.Score{}).Error
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
