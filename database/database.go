package database

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/anjiri1684/digital_tests/auth"
	config "github.com/anjiri1684/digital_tests/configs"
	"github.com/anjiri1684/digital_tests/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the database named by driver ("postgres" or "sqlite").
func Connect(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		PrepareStmt:                              false,
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   newLogger(os.Stdout),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == "sqlite" {
		// One writer keeps in-memory databases shared and avoids SQLITE_BUSY.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	log.Printf("✅ Database connected successfully (%s)", driver)
	return db, nil
}

// newLogger reports slow queries and real failures; a missing row is an ordinary 404.
func newLogger(out io.Writer) logger.Interface {
	return logger.New(log.New(out, "\r\n", log.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Quiz{},
		&models.Question{},
		&models.Score{},
		&models.ScoreAnswer{},
		&models.LibraryEntry{},
	)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Println("✅ Database migration successful")
	return nil
}

// SeedAdmin creates the admin account from settings unless one with that email exists.
func SeedAdmin(db *gorm.DB, settings config.Settings) error {
	if settings.AdminEmail == "" || settings.AdminPassword == "" {
		log.Println("⚠️ ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", settings.AdminEmail).Count(&count).Error; err != nil {
		return fmt.Errorf("check for admin user: %w", err)
	}
	if count > 0 {
		log.Println("Admin user already exists.")
		return nil
	}

	hashedPassword, err := auth.HashPassword(settings.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	name := settings.AdminName
	if name == "" {
		name = "Admin"
	}
	email := settings.AdminEmail
	adminUser := models.User{
		Name:     name,
		Email:    &email,
		Password: hashedPassword,
		Role:     models.RoleAdmin,
		Active:   true,
	}
	if err := db.Create(&adminUser).Error; err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}

	log.Println("✅ Admin user seeded successfully")
	return nil
}
