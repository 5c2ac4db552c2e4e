package services

import (
	"errors"
	"testing"

	"github.com/anjiri1684/digital_tests/auth"
	"github.com/anjiri1684/digital_tests/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func TestRegisterUser(t *testing.T) {
	db := newTestDB(t)

	_, err := RegisterUser(db, RegisterInput{Name: "Nobody", Password: "secret123"})
	expectHTTPError(t, err, fiber.StatusUnprocessableEntity, "Validation.RegisterValidation.email_or_username_required")

	user, err := RegisterUser(db, RegisterInput{Name: "Sara", Username: "sara", Email: "  Sara@Example.com ", Password: "secret123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Active || user.Role != models.RoleUser {
		t.Fatalf("expected inactive User, got active=%v role=%s", user.Active, user.Role)
	}
	if user.Email == nil || *user.Email != "sara@example.com" {
		t.Fatalf("expected normalized email, got %v", user.Email)
	}
	if user.Password == "secret123" || auth.CheckPassword(user.Password, "secret123") != nil {
		t.Fatalf("password not hashed correctly")
	}

	_, err = RegisterUser(db, RegisterInput{Name: "Sara 2", Username: "sara", Password: "secret123"})
	expectHTTPError(t, err, fiber.StatusConflict, "User.username_exists")
	_, err = RegisterUser(db, RegisterInput{Name: "Sara 3", Email: "sara@example.com", Password: "secret123"})
	expectHTTPError(t, err, fiber.StatusConflict, "User.email_exists")

	// Two accounts without email must not collide on the unique email index.
	if _, err := RegisterUser(db, RegisterInput{Name: "A", Username: "only_a", Password: "secret123"}); err != nil {
		t.Fatalf("register username-only a: %v", err)
	}
	if _, err := RegisterUser(db, RegisterInput{Name: "B", Username: "only_b", Password: "secret123"}); err != nil {
		t.Fatalf("register username-only b: %v", err)
	}
}

func TestActivateAndAuthenticate(t *testing.T) {
	db := newTestDB(t)
	user, err := RegisterUser(db, RegisterInput{Name: "Omar", Username: "omar", Email: "omar@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	pending, err := PendingActivation(db, "omar@example.com")
	if err != nil || pending.ID != user.ID {
		t.Fatalf("expected pending activation for omar: %v", err)
	}

	activated, already, err := ActivateUser(db, user.ID)
	if err != nil || already || !activated.Active {
		t.Fatalf("activate: already=%v err=%v", already, err)
	}
	if _, already, err = ActivateUser(db, user.ID); err != nil || !already {
		t.Fatalf("second activation should report already active: %v", err)
	}
	_, err = PendingActivation(db, "omar@example.com")
	expectHTTPError(t, err, fiber.StatusBadRequest, "User.account_already_active")

	if _, err := Authenticate(db, LoginInput{Email: "OMAR@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("login by email: %v", err)
	}
	if _, err := Authenticate(db, LoginInput{Username: "omar", Password: "secret123"}); err != nil {
		t.Fatalf("login by username: %v", err)
	}

	_, err = Authenticate(db, LoginInput{Username: "omar", Password: "wrong-password"})
	expectHTTPError(t, err, fiber.StatusUnauthorized, "Auth.Service.invalid_credentials")
	_, err = Authenticate(db, LoginInput{Username: "ghost", Password: "secret123"})
	expectHTTPError(t, err, fiber.StatusUnauthorized, "Auth.Service.invalid_credentials")
	_, err = Authenticate(db, LoginInput{Username: "omar"})
	expectHTTPError(t, err, fiber.StatusBadRequest, "Auth.Service.password_required")
	_, err = Authenticate(db, LoginInput{Password: "secret123"})
	expectHTTPError(t, err, fiber.StatusBadRequest, "Auth.Service.email_or_username_required")
}

func TestPasswordReset(t *testing.T) {
	db := newTestDB(t)
	user, err := RegisterUser(db, RegisterInput{Name: "Lina", Email: "lina@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err = PasswordResetCandidate(db, "lina@example.com")
	expectHTTPError(t, err, fiber.StatusForbidden, "Auth.user_inactive")
	_, err = PasswordResetCandidate(db, "nobody@example.com")
	expectHTTPError(t, err, fiber.StatusNotFound, "Auth.user_not_found_register")

	if _, _, err := ActivateUser(db, user.ID); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if _, err := PasswordResetCandidate(db, "lina@example.com"); err != nil {
		t.Fatalf("candidate: %v", err)
	}

	_, err = ResetPassword(db, "lina@example.com", "123")
	expectHTTPError(t, err, fiber.StatusBadRequest, "Auth.password_length")
	_, err = ResetPassword(db, "ghost@example.com", "newsecret")
	expectHTTPError(t, err, fiber.StatusBadRequest, "Auth.invalid_token_or_user_not_found")

	if _, err := ResetPassword(db, "lina@example.com", "newsecret"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := Authenticate(db, LoginInput{Email: "lina@example.com", Password: "newsecret"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestUpdateUser(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "mona", models.RoleUser, true)
	createUser(t, db, "taken", models.RoleUser, true)

	_, err := UpdateUser(db, user.ID, UpdateUserInput{Username: strPtr("taken")}, nil)
	expectHTTPError(t, err, fiber.StatusConflict, "User.username_exists")

	updated, err := UpdateUser(db, user.ID, UpdateUserInput{Name: strPtr("Mona L"), Username: strPtr("mona")}, nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Mona L" || !updated.Active {
		t.Fatalf("unexpected update %+v", updated)
	}

	mailErr := errors.New("smtp down")
	_, err = UpdateUser(db, user.ID, UpdateUserInput{Email: strPtr("mona@example.com")}, func(*models.User) error { return mailErr })
	if !errors.Is(err, mailErr) {
		t.Fatalf("expected mail error, got %v", err)
	}
	reloaded, err := FindUser(db, user.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Email != nil || !reloaded.Active {
		t.Fatalf("failed email change must not be saved, got %+v", reloaded)
	}

	var notified *models.User
	updated, err = UpdateUser(db, user.ID, UpdateUserInput{Email: strPtr("mona@example.com")}, func(u *models.User) error {
		notified = u
		return nil
	})
	if err != nil {
		t.Fatalf("email change: %v", err)
	}
	if notified == nil || updated.Active || updated.Email == nil || *updated.Email != "mona@example.com" {
		t.Fatalf("email change should deactivate and notify, got %+v", updated)
	}
}

func TestDeleteAccountCascades(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner", models.RoleUser, true)
	taker := createUser(t, db, "taker", models.RoleUser, true)

	owned := createQuiz(t, db, owner.ID, models.VisibilityPublic)
	addQuestion(t, db, owner.ID, owned.ID, "q", []string{"a", "b"}, 0)
	foreign := createQuiz(t, db, taker.ID, models.VisibilityPublic)
	addQuestion(t, db, taker.ID, foreign.ID, "q", []string{"a", "b"}, 1)

	if _, err := AddPublicQuiz(db, "http://front", taker.ID, owned.ID); err != nil {
		t.Fatalf("taker library: %v", err)
	}
	if _, err := AddPublicQuiz(db, "http://front", owner.ID, foreign.ID); err != nil {
		t.Fatalf("owner library: %v", err)
	}
	if _, err := SubmitQuiz(db, taker.ID, owned.ID, []int{0}); err != nil {
		t.Fatalf("taker submit: %v", err)
	}
	if _, err := SubmitQuiz(db, owner.ID, foreign.ID, []int{1}); err != nil {
		t.Fatalf("owner submit: %v", err)
	}

	if _, err := DeleteAccount(db, owner.ID); err != nil {
		t.Fatalf("delete account: %v", err)
	}

	var count int64
	db.Model(&models.Quiz{}).Where("user_id = ?", owner.ID).Count(&count)
	if count != 0 {
		t.Fatalf("owned quizzes left: %d", count)
	}
	db.Model(&models.Question{}).Where("quiz_id = ?", owned.ID).Count(&count)
	if count != 0 {
		t.Fatalf("questions of owned quiz left: %d", count)
	}
	db.Model(&models.Score{}).Count(&count)
	if count != 0 {
		t.Fatalf("scores left: %d", count)
	}
	db.Model(&models.ScoreAnswer{}).Count(&count)
	if count != 0 {
		t.Fatalf("score answers left: %d", count)
	}
	db.Model(&models.LibraryEntry{}).Count(&count)
	if count != 0 {
		t.Fatalf("library entries left: %d", count)
	}

	// The other user's quiz survives.
	if _, _, err := GetQuiz(db, taker.ID, foreign.ID); err != nil {
		t.Fatalf("foreign quiz should survive: %v", err)
	}
	_, err := FindUser(db, owner.ID)
	expectHTTPError(t, err, fiber.StatusNotFound, "User.user_not_found")
}

func TestDuplicateUserError(t *testing.T) {
	cases := []struct {
		name        string
		err         error
		usernameSet bool
		emailSet    bool
		want        string
	}{
		{"sqlite email column", errors.New("UNIQUE constraint failed: users.email"), true, true, "User.email_exists"},
		{"sqlite username column", errors.New("UNIQUE constraint failed: users.username"), true, true, "User.username_exists"},
		{"postgres email index", errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_email"`), true, true, "User.email_exists"},
		{"translated, email only", gorm.ErrDuplicatedKey, false, true, "User.email_exists"},
		{"translated, username only", gorm.ErrDuplicatedKey, true, false, "User.username_exists"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expectHTTPError(t, duplicateUserError(tc.err, tc.usernameSet, tc.emailSet), fiber.StatusConflict, tc.want)
		})
	}
}
