package cli

import (
	"log"

	config "github.com/anjiri1684/digital_tests/configs"
	"github.com/anjiri1684/digital_tests/database"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// NewMigrateCmd creates or updates the database schema.
func NewMigrateCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openDatabase(*envFile)
			if err != nil {
				return err
			}
			defer closeDatabase(db)
			return database.Migrate(db)
		},
	}
}

// NewSeedAdminCmd creates the admin account from ADMIN_* settings when it does not exist yet.
func NewSeedAdminCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, db, err := openDatabase(*envFile)
			if err != nil {
				return err
			}
			defer closeDatabase(db)
			if err := database.Migrate(db); err != nil {
				return err
			}
			return database.SeedAdmin(db, settings)
		},
	}
}

func openDatabase(envFile string) (config.Settings, *gorm.DB, error) {
	settings, err := config.Load(envFile)
	if err != nil {
		return config.Settings{}, nil, err
	}
	db, err := database.Connect(settings.DatabaseDriver, settings.DatabaseURL)
	if err != nil {
		return config.Settings{}, nil, err
	}
	return settings, db, nil
}

func closeDatabase(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("🔥 Failed to close database: %v", err)
	}
}
