package config

import (
	"strings"
	"testing"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://quiz@localhost/quiz")
	t.Setenv("JWT_USER_ACTIVATION_KEY", "activation")
	t.Setenv("JWT_USER_ACCESS_KEY", "access")
	t.Setenv("JWT_RESET_PASSWORD_KEY", "reset")
	t.Setenv("JWT_QUIZ_SECRET_KEY", "share")
	for _, key := range []string{"PORT", "DATABASE_DRIVER", "SMTP_PORT", "SMTP_USERNAME", "SMTP_PASSWORD", "DEFAULT_LANGUAGE", "LIBRARY_REVEAL_ANSWERS"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("FRONTEND_URL", "https://app.example.com/")

	s, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Port != "3002" {
		t.Fatalf("expected default port 3002, got %q", s.Port)
	}
	if s.DatabaseDriver != "postgres" || s.SMTPPort != 465 || s.DefaultLanguage != "ar" {
		t.Fatalf("unexpected defaults: %+v", s)
	}
	if !s.LibraryRevealAnswers {
		t.Fatalf("expected answers to be revealed by default")
	}
	if s.FrontendURL != "https://app.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", s.FrontendURL)
	}
	if s.SMTPConfigured() {
		t.Fatalf("smtp should not be configured without credentials")
	}
}

func TestLoadReportsMissingKeys(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_USER_ACTIVATION_KEY", "")
	t.Setenv("JWT_USER_ACCESS_KEY", "x")
	t.Setenv("JWT_RESET_PASSWORD_KEY", "x")
	t.Setenv("JWT_QUIZ_SECRET_KEY", "x")
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("SMTP_PORT", "")
	t.Setenv("LIBRARY_REVEAL_ANSWERS", "")

	_, err := Load("")
	if err == nil {
		t.Fatalf("expected error for missing keys")
	}
	if !strings.Contains(err.Error(), "DATABASE_URL") || !strings.Contains(err.Error(), "JWT_USER_ACTIVATION_KEY") {
		t.Fatalf("expected both keys in error, got %v", err)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	setRequired(t)
	t.Setenv("DATABASE_DRIVER", "mysql")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected unsupported driver error")
	}
}

func TestAllowedOrigins(t *testing.T) {
	s := Settings{CORSOrigins: "https://a.example, ,https://b.example"}
	got := s.AllowedOrigins()
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", got)
	}
}
