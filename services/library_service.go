package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/anjiri1684/digital_tests/auth"
	"github.com/anjiri1684/digital_tests/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuestionView is a question as shown to a quiz taker. CorrectOption is nil when answers are hidden.
type QuestionView struct {
	ID            uuid.UUID `json:"id"`
	Question      string    `json:"question"`
	Options       []string  `json:"options"`
	CorrectOption *int      `json:"correctOption,omitempty"`
}

type LibraryQuiz struct {
	models.Quiz
	Questions []QuestionView `json:"questions"`
}

// GetLibrary returns the caller's library quizzes in insertion order, each with its owner.
func GetLibrary(db *gorm.DB, userID uuid.UUID) ([]models.Quiz, error) {
	if _, err := findUser(db, userID); err != nil {
		return nil, err
	}
	quizzes := []models.Quiz{}
	err := db.Select("quizzes.*").
		Joins("JOIN library_entries ON library_entries.quiz_id = quizzes.id").
		Where("library_entries.user_id = ?", userID).
		Order("library_entries.created_at ASC").
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name", "email") }).
		Find(&quizzes).Error
	if err != nil {
		return nil, fmt.Errorf("load library: %w", err)
	}
	for i := range quizzes {
		quizzes[i].Questions = []models.Question{}
	}
	return quizzes, nil
}

func libraryQuizIDs(db *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	err := db.Model(&models.LibraryEntry{}).Where("user_id = ?", userID).Order("created_at ASC").Pluck("quiz_id", &ids).Error
	return ids, err
}

func inLibrary(db *gorm.DB, userID, quizID uuid.UUID) (bool, error) {
	return exists(db, &models.LibraryEntry{}, "user_id = ? AND quiz_id = ?", userID, quizID)
}

// GetLibraryQuiz returns one library quiz with its questions in order.
func GetLibraryQuiz(db *gorm.DB, userID, quizID uuid.UUID, revealAnswers bool) (*LibraryQuiz, error) {
	if _, err := findUser(db, userID); err != nil {
		return nil, err
	}
	ok, err := inLibrary(db, userID, quizID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, httpError(fiber.StatusNotFound, "Library.quiz_not_found_in_library")
	}

	var quiz models.Quiz
	if err := db.Preload("Questions", models.OrderedQuestions).First(&quiz, "id = ?", quizID).Error; err != nil {
		if isNotFound(err) {
			return nil, httpError(fiber.StatusNotFound, "Library.quiz_not_found_in_library")
		}
		return nil, err
	}

	view := LibraryQuiz{Quiz: quiz, Questions: make([]QuestionView, 0, len(quiz.Questions))}
	for _, q := range quiz.Questions {
		qv := QuestionView{ID: q.ID, Question: q.Question, Options: q.Options}
		if revealAnswers {
			correct := q.CorrectOption
			qv.CorrectOption = &correct
		}
		view.Questions = append(view.Questions, qv)
	}
	return &view, nil
}

// RemoveFromLibrary drops quizID from the caller's library and returns what remains.
func RemoveFromLibrary(db *gorm.DB, userID, quizID uuid.UUID) ([]uuid.UUID, error) {
	if _, err := findUser(db, userID); err != nil {
		return nil, err
	}
	res := db.Where("user_id = ? AND quiz_id = ?", userID, quizID).Delete(&models.LibraryEntry{})
	if res.Error != nil {
		return nil, fmt.Errorf("remove from library: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, httpError(fiber.StatusNotFound, "Library.quiz_not_found_in_library")
	}
	return libraryQuizIDs(db, userID)
}

// ShareQuiz issues a share link for a quiz the caller owns.
func ShareQuiz(db *gorm.DB, tokens *auth.Tokens, frontendURL string, userID, quizID uuid.UUID) (string, error) {
	var quiz models.Quiz
	if err := db.First(&quiz, "id = ? AND user_id = ?", quizID, userID).Error; err != nil {
		if isNotFound(err) {
			return "", httpError(fiber.StatusNotFound, "Library.quiz_not_found_or_unauthorized")
		}
		return "", err
	}
	token, err := tokens.IssueShare(quiz.ID, userID)
	if err != nil {
		return "", fmt.Errorf("issue share token: %w", err)
	}
	return fmt.Sprintf("%s/dashboard/add-quiz-to-library/%s", frontendURL, token), nil
}

// AddSharedQuiz redeems a share token into the caller's library.
func AddSharedQuiz(db *gorm.DB, tokens *auth.Tokens, userID uuid.UUID, token string) error {
	if err := requireLibraryMember(db, userID); err != nil {
		return err
	}
	quizID, err := tokens.ParseShare(token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) || errors.Is(err, auth.ErrTokenInvalid) {
			return httpError(fiber.StatusUnauthorized, "Library.invalid_or_expired_token")
		}
		return err
	}
	if _, err := findQuiz(db, quizID, "Library.quiz_not_found_or_unauthorized"); err != nil {
		return err
	}
	return addToLibrary(db, userID, quizID)
}

// AddPublicQuiz puts a public quiz into the caller's library and returns its frontend link.
func AddPublicQuiz(db *gorm.DB, frontendURL string, userID, quizID uuid.UUID) (string, error) {
	if err := requireLibraryMember(db, userID); err != nil {
		return "", err
	}
	quiz, err := findQuiz(db, quizID, "Library.quiz_not_found_or_not_public")
	if err != nil {
		return "", err
	}
	if !quiz.IsPublic() {
		return "", httpError(fiber.StatusNotFound, "Library.quiz_not_found_or_not_public")
	}
	if err := addToLibrary(db, userID, quiz.ID); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/public-quiz/%s", frontendURL, quiz.ID), nil
}

// requireLibraryMember bars admins before anything else is looked at.
func requireLibraryMember(db *gorm.DB, userID uuid.UUID) error {
	user, err := findUser(db, userID)
	if err != nil {
		return err
	}
	if user.IsAdmin() {
		return httpError(fiber.StatusForbidden, "Library.admin_cannot_add_quiz")
	}
	return nil
}

func addToLibrary(db *gorm.DB, userID, quizID uuid.UUID) error {
	entry := models.LibraryEntry{UserID: userID, QuizID: quizID, CreatedAt: time.Now()}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry).Error; err != nil {
		if isDuplicateKey(err) {
			return nil
		}
		return fmt.Errorf("add to library: %w", err)
	}
	return nil
}
