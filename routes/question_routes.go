package routes

import (
	"github.com/anjiri1684/digital_tests/handlers"
	"github.com/anjiri1684/digital_tests/middleware"
	"github.com/gofiber/fiber/v2"
)

func QuestionRoutes(app *fiber.App, h *handlers.Handler) {
	loggedIn := middleware.IsLoggedIn(h.Tokens, h.Revocations)
	active := middleware.IsActive(h.DB)

	questions := app.Group("/api/questions")
	questions.Post("/add", loggedIn, active, h.AddQuestion)
	questions.Delete("/:quizId/:questionId", loggedIn, active, h.DeleteQuestion)
	questions.Put("/:questionId", loggedIn, active, h.UpdateQuestion)
	questions.Get("/question/:questionId", loggedIn, h.GetQuestion)
	questions.Get("/quiz/:quizId", loggedIn, h.GetQuizQuestions)

	questions.Get("/*", notFound("No questions routes found!"))
}
