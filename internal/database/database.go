package database

import (
	"fmt"

	"github.com/chitragar/portfolio-core/internal/config"
	"github.com/chitragar/portfolio-core/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens a Postgres connection and optionally runs auto-migration.
func Connect(cfg *config.AppConfig, autoMigrate bool) (*gorm.DB, error) {
	logLevel := logger.Warn
	if !cfg.IsProduction() {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if autoMigrate {
		if err := Migrate(db); err != nil {
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	}

	return db, nil
}

// Migrate runs GORM auto-migration for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.FeedbackModel{},
		&models.FeedbackReactionModel{},
		&models.FeedbackAdminLogModel{},
		&models.AlbumModel{},
		&models.PhotoModel{},
		&models.SubscriberModel{},
		&models.EmailLogModel{},
		&models.UserSession{},
		&models.AdminOTP{},
	)
}
