package auth

import (
	"errors"
	"testing"
	"time"

	config "github.com/anjiri1684/digital_tests/configs"
	"github.com/google/uuid"
)

func testTokens() *Tokens {
	return NewTokens(config.Settings{
		ActivationKey:    "activation-secret",
		AccessKey:        "access-secret",
		ResetPasswordKey: "reset-secret",
		QuizShareKey:     "share-secret",
	})
}

func TestSessionRoundTrip(t *testing.T) {
	tokens := testTokens()
	userID := uuid.New()

	signed, issued, err := tokens.IssueSession(userID, "User")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if issued.ID == "" {
		t.Fatalf("expected a token id")
	}

	claims, err := tokens.ParseSession(signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != userID.String() || claims.Role != "User" || claims.ID != issued.ID {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ExpiresAt.Sub(claims.IssuedAt.Time) != SessionTTL {
		t.Fatalf("unexpected lifetime %v", claims.ExpiresAt.Sub(claims.IssuedAt.Time))
	}
}

func TestActivationDistinguishesExpiredFromInvalid(t *testing.T) {
	tokens := testTokens()
	userID := uuid.New()

	signed, err := tokens.IssueActivation(userID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	got, err := tokens.ParseActivation(signed)
	if err != nil || got != userID {
		t.Fatalf("expected %s, got %s (%v)", userID, got, err)
	}

	stale, err := tokens.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }).IssueActivation(userID)
	if err != nil {
		t.Fatalf("issue stale: %v", err)
	}
	if _, err := tokens.ParseActivation(stale); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected expired, got %v", err)
	}

	if _, err := tokens.ParseActivation("not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected invalid, got %v", err)
	}
}

func TestKeysAreNotInterchangeable(t *testing.T) {
	tokens := testTokens()

	activation, err := tokens.IssueActivation(uuid.New())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := tokens.ParseSession(activation); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("activation token must not be accepted as a session, got %v", err)
	}
	if _, err := tokens.ParseShare(activation); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("activation token must not be accepted as a share link, got %v", err)
	}
}

func TestResetAndShareRoundTrip(t *testing.T) {
	tokens := testTokens()

	reset, err := tokens.IssueReset("amal@example.com")
	if err != nil {
		t.Fatalf("issue reset: %v", err)
	}
	email, err := tokens.ParseReset(reset)
	if err != nil || email != "amal@example.com" {
		t.Fatalf("unexpected reset parse: %q %v", email, err)
	}

	quizID := uuid.New()
	share, err := tokens.IssueShare(quizID, uuid.New())
	if err != nil {
		t.Fatalf("issue share: %v", err)
	}
	got, err := tokens.ParseShare(share)
	if err != nil || got != quizID {
		t.Fatalf("unexpected share parse: %s %v", got, err)
	}

	expired, err := tokens.WithClock(func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }).IssueShare(quizID, uuid.New())
	if err != nil {
		t.Fatalf("issue expired share: %v", err)
	}
	if _, err := tokens.ParseShare(expired); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected expired share token, got %v", err)
	}
}
