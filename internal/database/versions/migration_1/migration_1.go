package migration_1

import (
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type HistoryEntry struct {
	Sentiment string
	Settings  datatypes.JSON `gorm:"type:jsonb"`
}

func Migration(db *gorm.DB) error {
	if err := db.Migrator().AddColumn(&HistoryEntry{}, "Sentiment"); err != nil {
		return fmt.Errorf("error adding Sentiment column: %w", err)
	}

	if err := db.Migrator().AddColumn(&HistoryEntry{}, "Settings"); err != nil {
		return fmt.Errorf("error adding Settings column: %w", err)
	}

	if err := db.Model(&HistoryEntry{}).
		Where("sentiment IS NULL").
		Update("sentiment", "").Error; err != nil {
		return fmt.Errorf("error setting default value for Sentiment: %w", err)
	}

	return nil
}

func Rollback(db *gorm.DB) error {
	if err := db.Migrator().DropColumn(&HistoryEntry{}, "Settings"); err != nil {
		return fmt.Errorf("error dropping Settings column: %w", err)
	}

	if err := db.Migrator().DropColumn(&HistoryEntry{}, "Sentiment"); err != nil {
		return fmt.Errorf("error dropping Sentiment column: %w", err)
	}

	return nil
}
