package database

import (
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const DefaultURL = "file::memory:"

// NewDatabase opens the database named by url and runs all migrations. URLs
// with a postgres scheme use the postgres driver, anything else is treated as
// a sqlite path or DSN.
func NewDatabase(url string) (*gorm.DB, error) {
	if url == "" {
		url = DefaultURL
	}

	var dialector gorm.Dialector
	isSqlite := false
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		dialector = postgres.Open(url)
	} else {
		dialector = sqlite.Open(strings.TrimPrefix(url, "sqlite://"))
		isSqlite = true
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("error opening database connection: %w", err)
	}

	if isSqlite {
		// SQLite only supports one writer at a time, and every connection to
		// an in-memory database gets its own empty database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("error getting sql db: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := GetMigrator(db).Migrate(); err != nil {
		return nil, fmt.Errorf("error migrating database: %w", err)
	}

	slog.Info("database ready", "dialect", db.Dialector.Name())
	return db, nil
}
