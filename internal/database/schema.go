package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	StageLogin   string = "LOGIN"
	StageProfile string = "PROFILE"
	StageReady   string = "READY"
)

type Session struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Stage        string    `gorm:"size:20;not null"`
	CreationTime time.Time

	Profile BusinessProfile `gorm:"embedded;embeddedPrefix:profile_"`

	History []HistoryEntry `gorm:"foreignKey:SessionId;constraint:OnDelete:CASCADE"`
}

type BusinessProfile struct {
	Name        string
	Location    string
	Services    string
	ManagerName string
	BrandVoice  string
}

func (p BusinessProfile) IsEmpty() bool {
	return p == BusinessProfile{}
}

type HistoryEntry struct {
	Id        uint      `gorm:"primaryKey;autoIncrement"`
	SessionId uuid.UUID `gorm:"type:uuid;index;not null"`
	Timestamp time.Time

	ClientLabel string
	Review      string
	Reply       string
	Sentiment   string

	Settings datatypes.JSON `gorm:"type:jsonb"` // {"tone":"…","language":"…","max_words":…}
}

type DraftSettings struct {
	Tone     string `json:"tone"`
	Language string `json:"language,omitempty"`
	MaxWords int    `json:"max_words,omitempty"`
}
