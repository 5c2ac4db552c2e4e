package routes

import (
	"github.com/anjiri1684/digital_tests/handlers"
	"github.com/anjiri1684/digital_tests/middleware"
	"github.com/gofiber/fiber/v2"
)

func QuizRoutes(app *fiber.App, h *handlers.Handler) {
	loggedIn := middleware.IsLoggedIn(h.Tokens, h.Revocations)
	active := middleware.IsActive(h.DB)

	quizzes := app.Group("/api/quizzes")

	// Library routes go first so /library is not taken for a quiz id.
	quizzes.Get("/library", loggedIn, h.GetLibrary)
	quizzes.Post("/library/add-public-quiz", loggedIn, active, h.AddPublicQuiz)
	quizzes.Get("/library/:quizId", loggedIn, h.GetLibraryQuiz)
	quizzes.Delete("/library/:quizId", loggedIn, h.RemoveFromLibrary)
	quizzes.Post("/share-quiz", loggedIn, active, h.ShareQuiz)
	quizzes.Post("/add-to-library", loggedIn, active, h.AddSharedQuiz)

	quizzes.Post("/create", loggedIn, active, h.CreateQuiz)
	quizzes.Get("/public", h.GetPublicQuizzes)
	quizzes.Get("/userQuiz", loggedIn, h.GetUserQuizzes)
	quizzes.Get("/:id", loggedIn, h.GetQuiz)
	quizzes.Put("/:id", loggedIn, active, h.UpdateQuiz)
	quizzes.Delete("/:id", loggedIn, active, h.DeleteQuiz)

	quizzes.Get("/*", notFound("No quizzes routes found!"))
}
