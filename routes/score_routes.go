package routes

import (
	"github.com/anjiri1684/digital_tests/handlers"
	"github.com/anjiri1684/digital_tests/middleware"
	"github.com/gofiber/fiber/v2"
)

func ScoreRoutes(app *fiber.App, h *handlers.Handler) {
	loggedIn := middleware.IsLoggedIn(h.Tokens, h.Revocations)

	scores := app.Group("/api/scores")
	scores.Get("/examiner", loggedIn, h.GetExaminerScores)
	scores.Get("/", loggedIn, h.GetScores)
	scores.Get("/:scoreId", loggedIn, h.GetScore)
	scores.Post("/submit", loggedIn, middleware.IsActive(h.DB), h.SubmitQuiz)
	scores.Delete("/delete-score", loggedIn, h.DeleteScore)

	scores.Get("/*", notFound("No score routes found!"))
}
