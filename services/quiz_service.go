package services

import (
	"fmt"
	"strings"

	"github.com/anjiri1684/digital_tests/models"
	"github.com/anjiri1684/digital_tests/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuizInput struct {
	Title       string
	Description string
	Time        float64
	Visibility  string
}

// ownerColumns limits the preloaded owner to public profile fields.
func ownerColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "username", "email")
}

func preloadQuiz(db *gorm.DB) *gorm.DB {
	return db.Preload("Questions", models.OrderedQuestions).Preload("User", ownerColumns)
}

func CreateQuiz(db *gorm.DB, userID uuid.UUID, in QuizInput) (*models.Quiz, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" {
		return nil, httpError(fiber.StatusBadRequest, "Quiz.title_required")
	}
	if description == "" {
		return nil, httpError(fiber.StatusBadRequest, "Quiz.description_required")
	}
	if in.Time <= 0 {
		return nil, httpError(fiber.StatusBadRequest, "Quiz.time_required")
	}
	visibility := in.Visibility
	if visibility == "" {
		visibility = models.VisibilityPrivate
	}
	if !models.ValidVisibility(visibility) {
		return nil, httpError(fiber.StatusBadRequest, "Quiz.invalid_visibility")
	}

	if _, err := findUser(db, userID); err != nil {
		return nil, err
	}

	quiz := models.Quiz{
		Title:       title,
		Description: description,
		Time:        in.Time,
		Visibility:  visibility,
		UserID:      userID,
		Questions:   []models.Question{},
	}
	if err := db.Create(&quiz).Error; err != nil {
		return nil, fmt.Errorf("create quiz: %w", err)
	}
	return &quiz, nil
}

func findQuiz(db *gorm.DB, quizID uuid.UUID, notFoundKey string) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := db.First(&quiz, "id = ?", quizID).Error; err != nil {
		if isNotFound(err) {
			return nil, httpError(fiber.StatusNotFound, notFoundKey)
		}
		return nil, err
	}
	return &quiz, nil
}

// findOwnedQuiz loads a quiz and requires userID to own it.
func findOwnedQuiz(db *gorm.DB, userID, quizID uuid.UUID, notFoundKey, forbiddenKey string) (*models.Quiz, error) {
	quiz, err := findQuiz(db, quizID, notFoundKey)
	if err != nil {
		return nil, err
	}
	if !quiz.OwnedBy(userID) {
		return nil, httpError(fiber.StatusForbidden, forbiddenKey)
	}
	return quiz, nil
}

// GetQuiz returns a quiz the caller may read: any of their own, or someone else's public one.
func GetQuiz(db *gorm.DB, userID, quizID uuid.UUID) (*models.Quiz, bool, error) {
	var quiz models.Quiz
	if err := preloadQuiz(db).First(&quiz, "id = ?", quizID).Error; err != nil {
		if isNotFound(err) {
			return nil, false, httpError(fiber.StatusNotFound, "Quiz.quiz_not_found")
		}
		return nil, false, err
	}
	isOwner := quiz.OwnedBy(userID)
	if !isOwner && !quiz.IsPublic() {
		return nil, false, httpError(fiber.StatusForbidden, "Quiz.not_authorized_to_access")
	}
	return &quiz, isOwner, nil
}

type PublicPage struct {
	TotalQuizzes int64         `json:"totalQuizzes"`
	TotalPages   int           `json:"totalPages"`
	CurrentPage  int           `json:"currentPage"`
	Quizzes      []models.Quiz `json:"quizzes"`
}

func ListPublicQuizzes(db *gorm.DB, page, limit int) (*PublicPage, error) {
	var total int64
	if err := db.Model(&models.Quiz{}).Where("visibility = ?", models.VisibilityPublic).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count public quizzes: %w", err)
	}

	quizzes := []models.Quiz{}
	err := preloadQuiz(db).
		Where("visibility = ?", models.VisibilityPublic).
		Order("created_at ASC").
		Order("id ASC").
		Offset(utils.Offset(page, limit)).
		Limit(limit).
		Find(&quizzes).Error
	if err != nil {
		return nil, fmt.Errorf("list public quizzes: %w", err)
	}

	return &PublicPage{
		TotalQuizzes: total,
		TotalPages:   utils.TotalPages(total, limit),
		CurrentPage:  page,
		Quizzes:      quizzes,
	}, nil
}

func ListUserQuizzes(db *gorm.DB, userID uuid.UUID) ([]models.Quiz, error) {
	quizzes := []models.Quiz{}
	if err := preloadQuiz(db).Where("user_id = ?", userID).Order("created_at ASC").Find(&quizzes).Error; err != nil {
		return nil, fmt.Errorf("list user quizzes: %w", err)
	}
	return quizzes, nil
}

// QuizUpdate holds the optional fields of an update; nil means "leave as is".
type QuizUpdate struct {
	Title       *string
	Description *string
	Time        *float64
	Visibility  *string
	Questions   []uuid.UUID
}

func UpdateQuiz(db *gorm.DB, userID, quizID uuid.UUID, in QuizUpdate) (*models.Quiz, error) {
	quiz, err := findOwnedQuiz(db, userID, quizID, "Quiz.quiz_not_found", "Quiz.not_authorized_to_update")
	if err != nil {
		return nil, err
	}

	if in.Title != nil && strings.TrimSpace(*in.Title) != "" {
		quiz.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil && strings.TrimSpace(*in.Description) != "" {
		quiz.Description = strings.TrimSpace(*in.Description)
	}
	if in.Time != nil {
		if *in.Time <= 0 {
			return nil, httpError(fiber.StatusBadRequest, "Quiz.time_required")
		}
		quiz.Time = *in.Time
	}
	if in.Visibility != nil {
		if !models.ValidVisibility(*in.Visibility) {
			return nil, httpError(fiber.StatusBadRequest, "Quiz.invalid_visibility")
		}
		quiz.Visibility = *in.Visibility
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if in.Questions != nil {
			if err := reorderQuestions(tx, quiz.ID, in.Questions); err != nil {
				return err
			}
		}
		return tx.Model(quiz).Select("title", "description", "time", "visibility").Updates(quiz).Error
	})
	if err != nil {
		return nil, err
	}

	var updated models.Quiz
	if err := preloadQuiz(db).First(&updated, "id = ?", quiz.ID).Error; err != nil {
		return nil, fmt.Errorf("reload quiz: %w", err)
	}
	return &updated, nil
}

// reorderQuestions rewrites positions so the quiz's questions follow order.
// order must name every question of the quiz exactly once.
func reorderQuestions(tx *gorm.DB, quizID uuid.UUID, order []uuid.UUID) error {
	var current []uuid.UUID
	if err := tx.Model(&models.Question{}).Where("quiz_id = ?", quizID).Pluck("id", &current).Error; err != nil {
		return err
	}
	if len(current) != len(order) {
		return httpError(fiber.StatusBadRequest, "Quiz.invalid_question_order")
	}
	known := make(map[uuid.UUID]bool, len(current))
	for _, id := range current {
		known[id] = true
	}
	for _, id := range order {
		if !known[id] {
			return httpError(fiber.StatusBadRequest, "Quiz.invalid_question_order")
		}
		delete(known, id)
	}
	for i, id := range order {
		if err := tx.Model(&models.Question{}).Where("id = ?", id).Update("position", i).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteQuiz removes the quiz with its questions, scores and library entries in one transaction.
func DeleteQuiz(db *gorm.DB, userID, quizID uuid.UUID) error {
	quiz, err := findOwnedQuiz(db, userID, quizID, "Quiz.quiz_not_found", "Quiz.not_authorized_to_delete")
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var scoreIDs []uuid.UUID
		if err := tx.Model(&models.Score{}).Where("quiz_id = ?", quiz.ID).Pluck("id", &scoreIDs).Error; err != nil {
			return err
		}
		if err := deleteScores(tx, scoreIDs); err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&models.LibraryEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Quiz{}, "id = ?", quiz.ID).Error
	})
}

// ToggleVisibility flips a quiz between public and private.
func ToggleVisibility(db *gorm.DB, userID, quizID uuid.UUID) (string, error) {
	quiz, err := findOwnedQuiz(db, userID, quizID, "Quiz.quiz_not_found", "Quiz.not_authorized_to_toggle_visibility")
	if err != nil {
		return "", err
	}
	next := models.VisibilityPublic
	if quiz.IsPublic() {
		next = models.VisibilityPrivate
	}
	if err := db.Model(quiz).Update("visibility", next).Error; err != nil {
		return "", fmt.Errorf("toggle visibility: %w", err)
	}
	return next, nil
}
