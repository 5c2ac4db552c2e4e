package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Settings struct {
	Port           string
	DatabaseDriver string
	DatabaseURL    string

	ActivationKey    string
	AccessKey        string
	ResetPasswordKey string
	QuizShareKey     string

	FrontendURL  string
	CORSOrigins  string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string

	RedisURL             string
	DefaultLanguage      string
	LibraryRevealAnswers bool

	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// Load reads envFile (if present) into the process environment and builds Settings from it.
func Load(envFile string) (Settings, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			log.Println("Warning: .env file not found, reading from system environment variables")
		}
	}

	smtpPort, err := strconv.Atoi(Config("SMTP_PORT", "465"))
	if err != nil {
		return Settings{}, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	reveal, err := strconv.ParseBool(Config("LIBRARY_REVEAL_ANSWERS", "true"))
	if err != nil {
		return Settings{}, fmt.Errorf("invalid LIBRARY_REVEAL_ANSWERS: %w", err)
	}

	s := Settings{
		Port:                 Config("PORT", "3002"),
		DatabaseDriver:       Config("DATABASE_DRIVER", "postgres"),
		DatabaseURL:          Config("DATABASE_URL", ""),
		ActivationKey:        Config("JWT_USER_ACTIVATION_KEY", ""),
		AccessKey:            Config("JWT_USER_ACCESS_KEY", ""),
		ResetPasswordKey:     Config("JWT_RESET_PASSWORD_KEY", ""),
		QuizShareKey:         Config("JWT_QUIZ_SECRET_KEY", ""),
		FrontendURL:          strings.TrimRight(Config("FRONTEND_URL", "http://localhost:5173"), "/"),
		CORSOrigins:          Config("CORS_ORIGINS", "https://www.digitaltests.org"),
		SMTPHost:             Config("SMTP_HOST", "smtp.hostinger.com"),
		SMTPPort:             smtpPort,
		SMTPUsername:         Config("SMTP_USERNAME", ""),
		SMTPPassword:         Config("SMTP_PASSWORD", ""),
		RedisURL:             Config("REDIS_URL", ""),
		DefaultLanguage:      Config("DEFAULT_LANGUAGE", "ar"),
		LibraryRevealAnswers: reveal,
		AdminName:            Config("ADMIN_NAME", ""),
		AdminEmail:           Config("ADMIN_EMAIL", ""),
		AdminPassword:        Config("ADMIN_PASSWORD", ""),
	}
	return s, s.Validate()
}

// Validate reports every required setting that is empty.
func (s Settings) Validate() error {
	required := []struct{ key, value string }{
		{"DATABASE_URL", s.DatabaseURL},
		{"JWT_USER_ACTIVATION_KEY", s.ActivationKey},
		{"JWT_USER_ACCESS_KEY", s.AccessKey},
		{"JWT_RESET_PASSWORD_KEY", s.ResetPasswordKey},
		{"JWT_QUIZ_SECRET_KEY", s.QuizShareKey},
	}
	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.key)
		}
	}
	if s.DatabaseDriver != "postgres" && s.DatabaseDriver != "sqlite" {
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", s.DatabaseDriver)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	return nil
}

// SMTPConfigured reports whether outbound email can be delivered.
func (s Settings) SMTPConfigured() bool {
	return s.SMTPHost != "" && s.SMTPUsername != "" && s.SMTPPassword != ""
}

func (s Settings) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(s.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func Config(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
