package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cardstatx/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Initialize opens the database and creates the schema if it does not
// exist yet. A MySQL DSN (user:pass@tcp(host)/db) selects the MySQL
// driver; anything else is treated as a SQLite file path. Safe to call
// on every process start.
func Initialize(databaseURL string) (*gorm.DB, error) {
	if databaseURL == "" {
		databaseURL = "data/cards.db"
	}

	var dialector gorm.Dialector
	if strings.Contains(databaseURL, "@tcp(") {
		dialector = mysql.Open(databaseURL)
	} else {
		if dir := filepath.Dir(databaseURL); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dialector = sqlite.Open(databaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&models.Card{}, &models.Listing{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	log.Println("[database] initialized successfully")
	return db, nil
}
