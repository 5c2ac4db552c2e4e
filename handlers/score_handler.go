package handlers

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/anjiri1684/digital_tests/models"
	"github.com/anjiri1684/digital_tests/services"
	"github.com/anjiri1684/digital_tests/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SubmitQuizRequest struct {
	QuizID  string          `json:"quizId"`
	Answers json.RawMessage `json:"answers"`
}

type DeleteScoreRequest struct {
	ScoreID string `json:"scoreId"`
}

// decodeAnswers turns the submitted answer list into option indexes. A null entry is unanswered.
func decodeAnswers(raw json.RawMessage) ([]int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []int{}, nil
	}
	var entries []*int
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, utils.NewHTTPError(fiber.StatusBadRequest, "Score.invalid_answers")
	}
	answers := make([]int, len(entries))
	for i, e := range entries {
		if e == nil {
			answers[i] = models.Unanswered
			continue
		}
		answers[i] = *e
	}
	return answers, nil
}

func (h *Handler) SubmitQuiz(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req SubmitQuizRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	raw := strings.TrimSpace(req.QuizID)
	if raw == "" {
		return utils.NewHTTPError(fiber.StatusBadRequest, "Score.quiz_id_required")
	}
	quizID, err := uuid.Parse(raw)
	if err != nil {
		return utils.NewHTTPError(fiber.StatusNotFound, "Score.quiz_not_found")
	}
	answers, err := decodeAnswers(req.Answers)
	if err != nil {
		return err
	}

	score, err := services.SubmitQuiz(h.db(c), id.UserID, quizID, answers)
	h.observeSubmission(err)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": h.t(c, "Score.quiz_submitted_successfully", nil),
		"score":   score,
	})
}

func (h *Handler) observeSubmission(err error) {
	if h.Metrics == nil {
		return
	}
	var httpErr *utils.HTTPError
	switch {
	case err == nil:
		h.Metrics.ObserveSubmission("accepted")
	case errors.As(err, &httpErr) && httpErr.Key == "Score.already_submitted":
		h.Metrics.ObserveSubmission("duplicate")
	default:
		h.Metrics.ObserveSubmission("rejected")
	}
}

func (h *Handler) GetScore(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	scoreID, err := uuid.Parse(c.Params("scoreId"))
	if err != nil {
		return utils.NewHTTPError(fiber.StatusNotFound, "Score.score_not_found")
	}
	score, err := services.GetScore(h.db(c), id.UserID, scoreID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"score": score})
}

func (h *Handler) GetScores(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	scores, err := services.ListUserScores(h.db(c), id.UserID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"scores": scores})
}

func (h *Handler) GetExaminerScores(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	scores, err := services.ListExaminerScores(h.db(c), id.UserID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"scores": scores})
}

func (h *Handler) DeleteScore(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req DeleteScoreRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	raw := strings.TrimSpace(req.ScoreID)
	if raw == "" {
		return utils.NewHTTPError(fiber.StatusBadRequest, "Score.score_id_required")
	}
	scoreID, err := uuid.Parse(raw)
	if err != nil {
		return utils.NewHTTPError(fiber.StatusNotFound, "Score.score_not_found")
	}
	if err := services.DeleteScore(h.db(c), id.UserID, scoreID); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": h.t(c, "Score.score_deleted_successfully", nil)})
}
