package database

import (
	"fmt"

	"github.com/sonicforge/scbridge-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens a Postgres connection for performance history.
func Connect(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// Migrate runs schema migrations.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Performance{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
