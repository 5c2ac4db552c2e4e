package services

import (
	"fmt"

	"github.com/anjiri1684/digital_tests/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Grade compares answers[i] with the correct option of questions[i]. Questions without a
// matching answer are recorded as Unanswered and count as wrong.
func Grade(questions []models.Question, answers []int) (int, []models.ScoreAnswer) {
	correct := 0
	graded := make([]models.ScoreAnswer, 0, len(questions))
	for i, q := range questions {
		selected := models.Unanswered
		if i < len(answers) {
			selected = answers[i]
		}
		isCorrect := selected == q.CorrectOption
		if isCorrect {
			correct++
		}
		graded = append(graded, models.ScoreAnswer{
			Position:       i,
			QuestionID:     q.ID,
			SelectedOption: selected,
			IsCorrect:      isCorrect,
		})
	}
	return correct, graded
}

// Percentage returns correct/total as a percentage; zero questions give zero.
func Percentage(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

// SubmitQuiz grades and stores the caller's one and only attempt at a library quiz.
func SubmitQuiz(db *gorm.DB, userID, quizID uuid.UUID, answers []int) (*models.Score, error) {
	user, err := findUser(db, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleUser {
		return nil, httpError(fiber.StatusForbidden, "Score.user_only_submission")
	}
	ok, err := inLibrary(db, userID, quizID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, httpError(fiber.StatusForbidden, "Score.quiz_not_in_library")
	}

	var quiz models.Quiz
	if err := db.Preload("Questions", models.OrderedQuestions).First(&quiz, "id = ?", quizID).Error; err != nil {
		if isNotFound(err) {
			return nil, httpError(fiber.StatusNotFound, "Score.quiz_not_found")
		}
		return nil, err
	}
	if len(quiz.Questions) == 0 {
		return nil, httpError(fiber.StatusBadRequest, "Score.quiz_has_no_questions")
	}

	correct, graded := Grade(quiz.Questions, answers)
	score := models.Score{
		QuizID:         quiz.ID,
		UserID:         userID,
		Score:          Percentage(correct, len(quiz.Questions)),
		TotalQuestions: len(quiz.Questions),
		CorrectAnswers: correct,
		Answers:        graded,
	}

	// The unique (quiz_id, user_id) index decides races between concurrent submissions.
	err = db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&score).Error
	})
	if err != nil {
		if isDuplicateKey(err) {
			return nil, httpError(fiber.StatusConflict, "Score.already_submitted")
		}
		return nil, fmt.Errorf("save score: %w", err)
	}
	return &score, nil
}

func preloadScore(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Quiz").
		Preload("Quiz.Questions", models.OrderedQuestions).
		Preload("Answers", models.OrderedAnswers).
		Preload("Answers.Question")
}

// GetScore returns one of the caller's own scores.
func GetScore(db *gorm.DB, userID, scoreID uuid.UUID) (*models.Score, error) {
	var score models.Score
	if err := preloadScore(db).First(&score, "id = ? AND user_id = ?", scoreID, userID).Error; err != nil {
		if isNotFound(err) {
			return nil, httpError(fiber.StatusNotFound, "Score.score_not_found")
		}
		return nil, err
	}
	return &score, nil
}

func ListUserScores(db *gorm.DB, userID uuid.UUID) ([]models.Score, error) {
	scores := []models.Score{}
	if err := preloadScore(db).Where("user_id = ?", userID).Order("created_at ASC").Find(&scores).Error; err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	if len(scores) == 0 {
		return nil, httpError(fiber.StatusNotFound, "Score.no_scores_found")
	}
	return scores, nil
}

// ListExaminerScores returns every score submitted against quizzes the caller owns.
func ListExaminerScores(db *gorm.DB, userID uuid.UUID) ([]models.Score, error) {
	if _, err := findUser(db, userID); err != nil {
		return nil, err
	}
	var quizIDs []uuid.UUID
	if err := db.Model(&models.Quiz{}).Where("user_id = ?", userID).Pluck("id", &quizIDs).Error; err != nil {
		return nil, fmt.Errorf("list owned quizzes: %w", err)
	}
	if len(quizIDs) == 0 {
		return nil, httpError(fiber.StatusNotFound, "Score.no_owned_quizzes_found")
	}

	scores := []models.Score{}
	err := preloadScore(db).
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Select("id", "username", "email") }).
		Where("quiz_id IN ?", quizIDs).
		Order("created_at ASC").
		Find(&scores).Error
	if err != nil {
		return nil, fmt.Errorf("list examiner scores: %w", err)
	}
	if len(scores) == 0 {
		return nil, httpError(fiber.StatusNotFound, "Score.no_scores_found_for_owned_quizzes")
	}
	return scores, nil
}

// DeleteScore lets the owner of the scored quiz remove a submission.
func DeleteScore(db *gorm.DB, userID, scoreID uuid.UUID) error {
	var score models.Score
	if err := db.Preload("Quiz").First(&score, "id = ?", scoreID).Error; err != nil {
		if isNotFound(err) {
			return httpError(fiber.StatusNotFound, "Score.score_not_found")
		}
		return err
	}
	if score.Quiz == nil || !score.Quiz.OwnedBy(userID) {
		return httpError(fiber.StatusForbidden, "Score.only_quiz_owner_can_delete")
	}
	return db.Transaction(func(tx *gorm.DB) error {
		return deleteScores(tx, []uuid.UUID{score.ID})
	})
}
