package services

import (
	"sync"
	"testing"

	"github.com/anjiri1684/digital_tests/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestGrade(t *testing.T) {
	questions := []models.Question{
		{ID: uuid.New(), CorrectOption: 0},
		{ID: uuid.New(), CorrectOption: 1},
		{ID: uuid.New(), CorrectOption: 2},
		{ID: uuid.New(), CorrectOption: 3},
	}

	tests := []struct {
		name    string
		answers []int
		correct int
		score   float64
	}{
		{name: "three of four", answers: []int{0, 1, 2, 0}, correct: 3, score: 75},
		{name: "all correct", answers: []int{0, 1, 2, 3}, correct: 4, score: 100},
		{name: "short answers count as wrong", answers: []int{0}, correct: 1, score: 25},
		{name: "no answers", answers: nil, correct: 0, score: 0},
		{name: "extra answers ignored", answers: []int{0, 1, 2, 3, 4, 5}, correct: 4, score: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			correct, graded := Grade(questions, tt.answers)
			if correct != tt.correct {
				t.Fatalf("expected %d correct, got %d", tt.correct, correct)
			}
			if got := Percentage(correct, len(questions)); got != tt.score {
				t.Fatalf("expected score %v, got %v", tt.score, got)
			}
			if len(graded) != len(questions) {
				t.Fatalf("expected %d graded answers, got %d", len(questions), len(graded))
			}
			for i, a := range graded {
				if a.QuestionID != questions[i].ID || a.Position != i {
					t.Fatalf("answer %d out of order: %+v", i, a)
				}
				if i >= len(tt.answers) && (a.SelectedOption != models.Unanswered || a.IsCorrect) {
					t.Fatalf("missing answer %d should be unanswered and wrong, got %+v", i, a)
				}
			}
		})
	}
}

type scoringFixture struct {
	db     *gorm.DB
	owner  *models.User
	taker  *models.User
	quiz   *models.Quiz
	labels []string
}

func newScoringFixture(t *testing.T) scoringFixture {
	t.Helper()
	db := newTestDB(t)
	owner := createUser(t, db, "owner", models.RoleUser, true)
	taker := createUser(t, db, "taker", models.RoleUser, true)
	quiz := createQuiz(t, db, owner.ID, models.VisibilityPublic)
	labels := []string{"q1", "q2", "q3", "q4"}
	for i, label := range labels {
		addQuestion(t, db, owner.ID, quiz.ID, label, []string{"a", "b", "c", "d"}, i)
	}
	if _, err := AddPublicQuiz(db, "http://front", taker.ID, quiz.ID); err != nil {
		t.Fatalf("add to library: %v", err)
	}
	return scoringFixture{db: db, owner: owner, taker: taker, quiz: quiz, labels: labels}
}

func TestSubmitQuizScoresInStoredOrder(t *testing.T) {
	f := newScoringFixture(t)

	score, err := SubmitQuiz(f.db, f.taker.ID, f.quiz.ID, []int{0, 1, 2, 0})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if score.Score != 75 || score.CorrectAnswers != 3 || score.TotalQuestions != 4 {
		t.Fatalf("unexpected score %+v", score)
	}

	loaded, err := GetScore(f.db, f.taker.ID, score.ID)
	if err != nil {
		t.Fatalf("get score: %v", err)
	}
	if len(loaded.Answers) != 4 {
		t.Fatalf("expected 4 answers, got %d", len(loaded.Answers))
	}
	for i, a := range loaded.Answers {
		if a.Question == nil || a.Question.Question != f.labels[i] {
			t.Fatalf("answer %d not populated in order: %+v", i, a)
		}
	}
	if loaded.Quiz == nil || len(loaded.Quiz.Questions) != 4 {
		t.Fatalf("expected quiz with questions populated, got %+v", loaded.Quiz)
	}
}

func TestSubmitQuizOnlyOnce(t *testing.T) {
	f := newScoringFixture(t)

	if _, err := SubmitQuiz(f.db, f.taker.ID, f.quiz.ID, []int{0, 1, 2, 3}); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	_, err := SubmitQuiz(f.db, f.taker.ID, f.quiz.ID, []int{0, 0, 0, 0})
	expectHTTPError(t, err, fiber.StatusConflict, "Score.already_submitted")

	var count int64
	f.db.Model(&models.Score{}).Where("quiz_id = ? AND user_id = ?", f.quiz.ID, f.taker.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected one score, got %d", count)
	}
}

func TestSubmitQuizConcurrentSubmissionsKeepOne(t *testing.T) {
	f := newScoringFixture(t)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := SubmitQuiz(f.db, f.taker.ID, f.quiz.ID, []int{0, 1, 2, 3})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		expectHTTPError(t, err, fiber.StatusConflict, "Score.already_submitted")
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one successful submission, got %d", succeeded)
	}
}

func TestSubmitQuizRejections(t *testing.T) {
	f := newScoringFixture(t)

	admin := createUser(t, f.db, "admin", models.RoleAdmin, true)
	_, err := SubmitQuiz(f.db, admin.ID, f.quiz.ID, []int{0})
	expectHTTPError(t, err, fiber.StatusForbidden, "Score.user_only_submission")

	stranger := createUser(t, f.db, "stranger", models.RoleUser, true)
	_, err = SubmitQuiz(f.db, stranger.ID, f.quiz.ID, []int{0})
	expectHTTPError(t, err, fiber.StatusForbidden, "Score.quiz_not_in_library")

	empty := createQuiz(t, f.db, f.owner.ID, models.VisibilityPublic)
	if _, err := AddPublicQuiz(f.db, "http://front", f.taker.ID, empty.ID); err != nil {
		t.Fatalf("add empty quiz: %v", err)
	}
	_, err = SubmitQuiz(f.db, f.taker.ID, empty.ID, nil)
	expectHTTPError(t, err, fiber.StatusBadRequest, "Score.quiz_has_no_questions")
}

func TestScoreRetrievalAndDeletion(t *testing.T) {
	f := newScoringFixture(t)

	_, err := ListUserScores(f.db, f.taker.ID)
	expectHTTPError(t, err, fiber.StatusNotFound, "Score.no_scores_found")
	_, err = ListExaminerScores(f.db, f.owner.ID)
	expectHTTPError(t, err, fiber.StatusNotFound, "Score.no_scores_found_for_owned_quizzes")
	_, err = ListExaminerScores(f.db, f.taker.ID)
	expectHTTPError(t, err, fiber.StatusNotFound, "Score.no_owned_quizzes_found")

	score, err := SubmitQuiz(f.db, f.taker.ID, f.quiz.ID, []int{0, 1})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	mine, err := ListUserScores(f.db, f.taker.ID)
	if err != nil || len(mine) != 1 {
		t.Fatalf("expected one own score, got %d (%v)", len(mine), err)
	}
	examined, err := ListExaminerScores(f.db, f.owner.ID)
	if err != nil || len(examined) != 1 {
		t.Fatalf("expected one examiner score, got %d (%v)", len(examined), err)
	}
	if examined[0].User == nil || examined[0].User.Username == nil || *examined[0].User.Username != "taker" {
		t.Fatalf("expected taker populated on examiner view, got %+v", examined[0].User)
	}

	_, err = GetScore(f.db, f.owner.ID, score.ID)
	expectHTTPError(t, err, fiber.StatusNotFound, "Score.score_not_found")

	err = DeleteScore(f.db, f.taker.ID, score.ID)
	expectHTTPError(t, err, fiber.StatusForbidden, "Score.only_quiz_owner_can_delete")

	if err := DeleteScore(f.db, f.owner.ID, score.ID); err != nil {
		t.Fatalf("delete score: %v", err)
	}
	var answers int64
	f.db.Model(&models.ScoreAnswer{}).Where("score_id = ?", score.ID).Count(&answers)
	if answers != 0 {
		t.Fatalf("expected answers removed with score, got %d", answers)
	}

	err = DeleteScore(f.db, f.owner.ID, score.ID)
	expectHTTPError(t, err, fiber.StatusNotFound, "Score.score_not_found")
}
