package services

import (
	"errors"
	"testing"

	"github.com/anjiri1684/digital_tests/auth"
	"github.com/anjiri1684/digital_tests/database"
	"github.com/anjiri1684/digital_tests/models"
	"github.com/anjiri1684/digital_tests/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, db *gorm.DB, username, role string, active bool) *models.User {
	t.Helper()
	hashed, err := auth.HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	name := username
	user := models.User{Name: "User " + username, Username: &name, Password: hashed, Role: role, Active: active}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return &user
}

func createQuiz(t *testing.T, db *gorm.DB, owner uuid.UUID, visibility string) *models.Quiz {
	t.Helper()
	quiz, err := CreateQuiz(db, owner, QuizInput{Title: "Capitals", Description: "World capitals", Time: 10, Visibility: visibility})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	return quiz
}

func addQuestion(t *testing.T, db *gorm.DB, owner, quizID uuid.UUID, text string, options []string, correct int) *models.Question {
	t.Helper()
	q, err := AddQuestion(db, owner, QuestionInput{QuizID: quizID, Question: text, Options: options, CorrectOption: &correct})
	if err != nil {
		t.Fatalf("add question %q: %v", text, err)
	}
	return q
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

// expectHTTPError fails unless err is an *utils.HTTPError with the given status and key.
func expectHTTPError(t *testing.T, err error, status int, key string) {
	t.Helper()
	var he *utils.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *utils.HTTPError %d %s, got %T: %v", status, key, err, err)
	}
	if he.Status != status || he.Key != key {
		t.Fatalf("expected %d %s, got %d %s", status, key, he.Status, he.Key)
	}
}
