package handlers

import (
	"github.com/anjiri1684/digital_tests/models"
	"github.com/anjiri1684/digital_tests/services"
	"github.com/anjiri1684/digital_tests/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateQuizRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Time        interface{} `json:"time"`
	Visibility  string      `json:"visibility"`
}

type UpdateQuizRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Time        *float64 `json:"time"`
	Visibility  *string  `json:"visibility"`
	Questions   []string `json:"questions"`
}

// QuizDetail is a quiz as seen by a reader, with its question count and,
// for the owner, a sentence describing its visibility.
type QuizDetail struct {
	*models.Quiz
	QuestionCount     int    `json:"questionCount"`
	VisibilityMessage string `json:"visibilityMessage,omitempty"`
}

func (h *Handler) CreateQuiz(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req CreateQuizRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	// Only a JSON number counts as a time limit.
	minutes, ok := req.Time.(float64)
	if !ok {
		return utils.NewHTTPError(fiber.StatusBadRequest, "Quiz.time_required")
	}

	quiz, err := services.CreateQuiz(h.db(c), id.UserID, services.QuizInput{
		Title:       req.Title,
		Description: req.Description,
		Time:        minutes,
		Visibility:  req.Visibility,
	})
	if err != nil {
		return err
	}
	return h.respond(c, fiber.StatusCreated, "Quiz.quiz_created_successfully", quiz)
}

func (h *Handler) GetPublicQuizzes(c *fiber.Ctx) error {
	page, limit := utils.Page(c.Query("page"), c.Query("limit"))
	result, err := services.ListPublicQuizzes(h.db(c), page, limit)
	if err != nil {
		return err
	}
	return h.respond(c, fiber.StatusOK, "Quiz.public_quizzes_retrieved_successfully", result)
}

func (h *Handler) GetQuiz(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	quizID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.NewHTTPError(fiber.StatusNotFound, "Quiz.quiz_not_found")
	}

	quiz, isOwner, err := services.GetQuiz(h.db(c), id.UserID, quizID)
	if err != nil {
		return err
	}

	detail := QuizDetail{Quiz: quiz, QuestionCount: len(quiz.Questions)}
	if isOwner {
		detail.VisibilityMessage = h.t(c, "Quiz.quiz_visibility_message", map[string]interface{}{"visibility": quiz.Visibility})
	}
	return h.respond(c, fiber.StatusOK, "Quiz.quiz_retrieved_successfully", detail)
}

func (h *Handler) GetUserQuizzes(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	quizzes, err := services.ListUserQuizzes(h.db(c), id.UserID)
	if err != nil {
		return err
	}
	return h.respond(c, fiber.StatusOK, "Quiz.user_quizzes_retrieved_successfully", quizzes)
}

func (h *Handler) UpdateQuiz(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	quizID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.NewHTTPError(fiber.StatusNotFound, "Quiz.quiz_not_found")
	}
	var req UpdateQuizRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	update := services.QuizUpdate{
		Title:       req.Title,
		Description: req.Description,
		Time:        req.Time,
		Visibility:  req.Visibility,
	}
	if req.Questions != nil {
		update.Questions = make([]uuid.UUID, 0, len(req.Questions))
		for _, raw := range req.Questions {
			qid, err := uuid.Parse(raw)
			if err != nil {
				return utils.NewHTTPError(fiber.StatusBadRequest, "Quiz.invalid_question_order")
			}
			update.Questions = append(update.Questions, qid)
		}
	}

	quiz, err := services.UpdateQuiz(h.db(c), id.UserID, quizID, update)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": h.t(c, "Quiz.quiz_updated_successfully", nil),
		"quiz":    quiz,
	})
}

func (h *Handler) DeleteQuiz(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	quizID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.NewHTTPError(fiber.StatusNotFound, "Quiz.quiz_not_found")
	}
	if err := services.DeleteQuiz(h.db(c), id.UserID, quizID); err != nil {
		return err
	}
	return h.respond(c, fiber.StatusOK, "Quiz.quiz_deleted_successfully", nil)
}
