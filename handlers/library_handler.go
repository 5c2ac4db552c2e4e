package handlers

import (
	"strings"

	"github.com/anjiri1684/digital_tests/services"
	"github.com/anjiri1684/digital_tests/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type QuizIDRequest struct {
	QuizID string `json:"quizId"`
}

type ShareTokenRequest struct {
	Token string `json:"token"`
}

// libraryQuizID reads a quiz id from a body or route value using the library's message keys.
func libraryQuizID(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, utils.NewHTTPError(fiber.StatusBadRequest, "Library.quiz_id_required")
	}
	return parseID(raw, "Library.invalid_quiz_id_format")
}

func (h *Handler) GetLibrary(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	quizzes, err := services.GetLibrary(h.db(c), id.UserID)
	if err != nil {
		return err
	}
	return h.respond(c, fiber.StatusOK, "Library.library_retrieved_successfully", quizzes)
}

func (h *Handler) GetLibraryQuiz(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	quizID, err := libraryQuizID(c.Params("quizId"))
	if err != nil {
		return err
	}
	quiz, err := services.GetLibraryQuiz(h.db(c), id.UserID, quizID, h.Settings.LibraryRevealAnswers)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": h.t(c, "Library.quiz_retrieved_successfully", nil),
		"quiz":    quiz,
	})
}

func (h *Handler) RemoveFromLibrary(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	quizID, err := libraryQuizID(c.Params("quizId"))
	if err != nil {
		return err
	}
	library, err := services.RemoveFromLibrary(h.db(c), id.UserID, quizID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": h.t(c, "Library.quiz_removed_successfully", nil),
		"library": library,
	})
}

func (h *Handler) ShareQuiz(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req QuizIDRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	quizID, err := libraryQuizID(req.QuizID)
	if err != nil {
		return err
	}
	link, err := services.ShareQuiz(h.db(c), h.Tokens, h.Settings.FrontendURL, id.UserID, quizID)
	if err != nil {
		return err
	}
	return h.respond(c, fiber.StatusOK, "Library.quiz_link_generated_successfully", fiber.Map{"quizLink": link})
}

func (h *Handler) AddSharedQuiz(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req ShareTokenRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	// Admins are turned away before the token is looked at, so an empty token is left to the service.
	if err := services.AddSharedQuiz(h.db(c), h.Tokens, id.UserID, strings.TrimSpace(req.Token)); err != nil {
		return err
	}
	return h.respond(c, fiber.StatusOK, "Library.quiz_added_successfully", nil)
}

func (h *Handler) AddPublicQuiz(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req QuizIDRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	// A malformed id resolves to no quiz at all, reported after the admin check.
	quizID, _ := uuid.Parse(strings.TrimSpace(req.QuizID))
	link, err := services.AddPublicQuiz(h.db(c), h.Settings.FrontendURL, id.UserID, quizID)
	if err != nil {
		return err
	}
	return h.respond(c, fiber.StatusOK, "Library.public_quiz_added_successfully", fiber.Map{"quizLink": link})
}
