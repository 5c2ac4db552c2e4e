package services

import (
	"fmt"
	"strings"

	"github.com/anjiri1684/digital_tests/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuestionInput struct {
	QuizID        uuid.UUID
	Question      string
	Options       []string
	CorrectOption *int
}

// AddQuestion appends a question to the end of a quiz the caller owns.
func AddQuestion(db *gorm.DB, userID uuid.UUID, in QuestionInput) (*models.Question, error) {
	text := strings.TrimSpace(in.Question)
	if in.QuizID == uuid.Nil || text == "" || in.Options == nil || in.CorrectOption == nil {
		return nil, httpError(fiber.StatusBadRequest, "Question.required_fields_missing")
	}

	question := models.Question{
		Question:      text,
		Options:       in.Options,
		CorrectOption: *in.CorrectOption,
	}
	if !question.Valid() {
		return nil, httpError(fiber.StatusBadRequest, "Question.invalid_options")
	}

	quiz, err := findOwnedQuiz(db, userID, in.QuizID, "Question.quiz_not_found", "Question.not_authorized_to_add")
	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		// Lock the parent row so concurrent appends cannot take the same slot.
		if tx.Dialector.Name() == "postgres" {
			var locked models.Quiz
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&locked, "id = ?", quiz.ID).Error; err != nil {
				return err
			}
		}
		var last struct{ Max *int }
		if err := tx.Model(&models.Question{}).Select("MAX(position) AS max").Where("quiz_id = ?", quiz.ID).Scan(&last).Error; err != nil {
			return err
		}
		question.QuizID = quiz.ID
		question.Position = 0
		if last.Max != nil {
			question.Position = *last.Max + 1
		}
		return tx.Create(&question).Error
	})
	if err != nil {
		return nil, fmt.Errorf("add question: %w", err)
	}
	return &question, nil
}

// QuestionUpdate holds optional changes; Options is applied only when the request carried an array.
type QuestionUpdate struct {
	Question      *string
	Options       []string
	CorrectOption *int
}

func UpdateQuestion(db *gorm.DB, userID, questionID uuid.UUID, in QuestionUpdate) (*models.Question, error) {
	question, err := findOwnedQuestion(db, userID, questionID, "Question.not_authorized_to_update")
	if err != nil {
		return nil, err
	}

	if in.Question != nil && strings.TrimSpace(*in.Question) != "" {
		question.Question = strings.TrimSpace(*in.Question)
	}
	if in.Options != nil {
		question.Options = in.Options
	}
	if in.CorrectOption != nil {
		question.CorrectOption = *in.CorrectOption
	}
	if !question.Valid() {
		return nil, httpError(fiber.StatusBadRequest, "Question.invalid_options")
	}

	if err := db.Model(question).Select("question", "options", "correct_option").Updates(question).Error; err != nil {
		return nil, fmt.Errorf("update question: %w", err)
	}
	return question, nil
}

// DeleteQuestion removes a question from a quiz the caller owns. Remaining positions keep their relative order.
func DeleteQuestion(db *gorm.DB, userID, quizID, questionID uuid.UUID) error {
	if _, err := findOwnedQuiz(db, userID, quizID, "Question.quiz_not_found", "Question.not_authorized_to_delete"); err != nil {
		return err
	}
	res := db.Where("id = ? AND quiz_id = ?", questionID, quizID).Delete(&models.Question{})
	if res.Error != nil {
		return fmt.Errorf("delete question: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return httpError(fiber.StatusNotFound, "Question.question_not_found_in_quiz")
	}
	return nil
}

// GetQuestion returns a question with its parent quiz, for the quiz owner only.
func GetQuestion(db *gorm.DB, userID, questionID uuid.UUID) (*models.Question, error) {
	return findOwnedQuestion(db, userID, questionID, "Question.not_authorized_to_access")
}

// ListQuestions returns the questions of a quiz the caller owns, in stored order.
func ListQuestions(db *gorm.DB, userID, quizID uuid.UUID) ([]models.Question, error) {
	if _, err := findOwnedQuiz(db, userID, quizID, "Question.quiz_not_found", "Question.not_authorized_to_access"); err != nil {
		return nil, err
	}
	questions := []models.Question{}
	if err := models.OrderedQuestions(db).Where("quiz_id = ?", quizID).Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}

func findOwnedQuestion(db *gorm.DB, userID, questionID uuid.UUID, forbiddenKey string) (*models.Question, error) {
	var question models.Question
	if err := db.Preload("Quiz").First(&question, "id = ?", questionID).Error; err != nil {
		if isNotFound(err) {
			return nil, httpError(fiber.StatusNotFound, "Question.question_not_found")
		}
		return nil, err
	}
	if question.Quiz == nil || !question.Quiz.OwnedBy(userID) {
		return nil, httpError(fiber.StatusForbidden, forbiddenKey)
	}
	return &question, nil
}
