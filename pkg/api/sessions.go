package api

import (
	"time"

	"github.com/google/uuid"
)

type BusinessProfile struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	Services    string `json:"services"`
	ManagerName string `json:"manager_name"`
	BrandVoice  string `json:"brand_voice"`
}

type Session struct {
	Id           uuid.UUID       `json:"id"`
	Stage        string          `json:"stage"`
	CreationTime time.Time       `json:"creation_time"`
	Profile      BusinessProfile `json:"profile"`
	HistoryCount int64           `json:"history_count"`
	GateEnabled  bool            `json:"gate_enabled"`
}

type LoginRequest struct {
	Password string `json:"password"`
}

type PresetRequest struct {
	Label string `json:"label"`
}

type Preset struct {
	Label   string          `json:"label"`
	Profile BusinessProfile `json:"profile"`
}

type TonesResponse struct {
	Tones   []string `json:"tones"`
	Default string   `json:"default"`
}

type Model struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
}
