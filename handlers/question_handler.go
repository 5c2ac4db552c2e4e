package handlers

import (
	"encoding/json"
	"strconv"

	"github.com/anjiri1684/digital_tests/services"
	"github.com/anjiri1684/digital_tests/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AddQuestionRequest struct {
	QuizID        string          `json:"quizId"`
	Question      string          `json:"question"`
	Options       json.RawMessage `json:"options"`
	CorrectOption *int            `json:"correctOption"`
}

type UpdateQuestionRequest struct {
	Question      *string         `json:"question"`
	Options       json.RawMessage `json:"options"`
	CorrectOption *int            `json:"correctOption"`
}

// decodeOptions reads the options field. present is false when it was missing or null,
// isArray reports a JSON array. Numbers and booleans in the array are kept as their text;
// any other element makes castOK false.
func decodeOptions(raw json.RawMessage) (options []string, present, isArray, castOK bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, false, false, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, true, false, false
	}
	options = make([]string, 0, len(items))
	for _, item := range items {
		text, ok := optionText(item)
		if !ok {
			return nil, true, true, false
		}
		options = append(options, text)
	}
	return options, true, true, true
}

func optionText(item json.RawMessage) (string, bool) {
	if string(item) == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(item, &s); err == nil {
		return s, true
	}
	var n json.Number
	if err := json.Unmarshal(item, &n); err == nil {
		return n.String(), true
	}
	var b bool
	if err := json.Unmarshal(item, &b); err == nil {
		return strconv.FormatBool(b), true
	}
	return "", false
}

func (h *Handler) AddQuestion(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req AddQuestionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	quizID, _ := uuid.Parse(req.QuizID)
	options, present, _, castOK := decodeOptions(req.Options)
	if present && !castOK {
		// Not an array: let validation reject it as invalid options.
		options = []string{}
	}

	question, err := services.AddQuestion(h.db(c), id.UserID, services.QuestionInput{
		QuizID:        quizID,
		Question:      req.Question,
		Options:       options,
		CorrectOption: req.CorrectOption,
	})
	if err != nil {
		return err
	}
	return h.respond(c, fiber.StatusOK, "Question.question_added_successfully", question)
}

func (h *Handler) UpdateQuestion(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	questionID, err := parseID(c.Params("questionId"), "Question.question_id_required")
	if err != nil {
		return err
	}
	var req UpdateQuestionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	update := services.QuestionUpdate{Question: req.Question, CorrectOption: req.CorrectOption}
	if options, _, isArray, castOK := decodeOptions(req.Options); isArray {
		if !castOK {
			return utils.NewHTTPError(fiber.StatusBadRequest, "Question.invalid_options")
		}
		update.Options = options
	}

	question, err := services.UpdateQuestion(h.db(c), id.UserID, questionID, update)
	if err != nil {
		return err
	}
	return h.respond(c, fiber.StatusOK, "Question.question_updated_successfully", question)
}

func (h *Handler) DeleteQuestion(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	quizID, err := parseID(c.Params("quizId"), "Question.quiz_and_question_id_required")
	if err != nil {
		return err
	}
	questionID, err := parseID(c.Params("questionId"), "Question.quiz_and_question_id_required")
	if err != nil {
		return err
	}
	if err := services.DeleteQuestion(h.db(c), id.UserID, quizID, questionID); err != nil {
		return err
	}
	return h.respond(c, fiber.StatusOK, "Question.question_deleted_successfully", nil)
}

func (h *Handler) GetQuestion(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	questionID, err := uuid.Parse(c.Params("questionId"))
	if err != nil {
		return utils.NewHTTPError(fiber.StatusNotFound, "Question.question_not_found")
	}
	question, err := services.GetQuestion(h.db(c), id.UserID, questionID)
	if err != nil {
		return err
	}
	return h.respond(c, fiber.StatusOK, "Question.question_found", question)
}

func (h *Handler) GetQuizQuestions(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	quizID, err := uuid.Parse(c.Params("quizId"))
	if err != nil {
		return utils.NewHTTPError(fiber.StatusNotFound, "Question.quiz_not_found")
	}
	questions, err := services.ListQuestions(h.db(c), id.UserID, quizID)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		return h.respond(c, fiber.StatusOK, "Question.no_questions_found", questions)
	}
	return h.respond(c, fiber.StatusOK, "Question.questions_found", questions)
}
