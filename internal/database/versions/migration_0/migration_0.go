package migration_0

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Session struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Stage        string    `gorm:"size:20;not null"`
	CreationTime time.Time

	ProfileName        string
	ProfileLocation    string
	ProfileServices    string
	ProfileManagerName string
	ProfileBrandVoice  string

	History []HistoryEntry `gorm:"foreignKey:SessionId;constraint:OnDelete:CASCADE"`
}

type HistoryEntry struct {
	Id        uint      `gorm:"primaryKey;autoIncrement"`
	SessionId uuid.UUID `gorm:"type:uuid;index;not null"`
	Timestamp time.Time

	ClientLabel string
	Review      string
	Reply       string
}

func Migration(db *gorm.DB) error {
	if err := db.AutoMigrate(&Session{}, &HistoryEntry{}); err != nil {
		return fmt.Errorf("initial migration failed: %w", err)
	}
	return nil
}
