package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"review-reply/internal/database"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ReviewPreviewLength = 50
	DefaultClientLabel  = "General"
)

// TruncateReview keeps the first ReviewPreviewLength characters of a review
// for display in the history table.
func TruncateReview(review string) string {
	review = strings.TrimSpace(review)
	if utf8.RuneCountInString(review) <= ReviewPreviewLength {
		return review
	}
	runes := []rune(review)
	return string(runes[:ReviewPreviewLength]) + "..."
}

// loggedIn returns the session unless it is still waiting at the login gate.
func (m *Manager) loggedIn(ctx context.Context, sessionId uuid.UUID) (database.Session, error) {
	session, err := m.Get(ctx, sessionId)
	if err != nil {
		return session, err
	}
	if session.Stage == database.StageLogin {
		return session, ErrLoginRequired
	}
	return session, nil
}

type NewHistoryEntry struct {
	ClientLabel string
	Review      string
	Reply       string
	Sentiment   string
	Settings    database.DraftSettings
}

// AppendHistory stores exactly one history entry for the session. The client
// label falls back to the business name of the session profile.
func (m *Manager) AppendHistory(ctx context.Context, sessionId uuid.UUID, entry NewHistoryEntry) (database.HistoryEntry, error) {
	session, err := m.loggedIn(ctx, sessionId)
	if err != nil {
		return database.HistoryEntry{}, err
	}

	label := strings.TrimSpace(entry.ClientLabel)
	if label == "" {
		label = session.Profile.Name
	}
	if label == "" {
		label = DefaultClientLabel
	}

	settings, err := json.Marshal(entry.Settings)
	if err != nil {
		return database.HistoryEntry{}, fmt.Errorf("could not marshal draft settings: %w", err)
	}

	row := database.HistoryEntry{
		SessionId:   sessionId,
		Timestamp:   time.Now().UTC(),
		ClientLabel: label,
		Review:      TruncateReview(entry.Review),
		Reply:       strings.TrimSpace(entry.Reply),
		Sentiment:   strings.TrimSpace(entry.Sentiment),
		Settings:    datatypes.JSON(settings),
	}

	if err := m.db.WithContext(ctx).Create(&row).Error; err != nil {
		return database.HistoryEntry{}, fmt.Errorf("error saving history entry: %w", err)
	}
	return row, nil
}

func (m *Manager) ListHistory(ctx context.Context, sessionId uuid.UUID) ([]database.HistoryEntry, error) {
	if _, err := m.loggedIn(ctx, sessionId); err != nil {
		return nil, err
	}

	var history []database.HistoryEntry
	if err := m.db.WithContext(ctx).
		Where("session_id = ?", sessionId).
		Order("id ASC").
		Find(&history).Error; err != nil {
		return nil, fmt.Errorf("error listing history: %w", err)
	}
	return history, nil
}

func (m *Manager) HistoryCount(ctx context.Context, sessionId uuid.UUID) (int64, error) {
	var count int64
	if err := m.db.WithContext(ctx).
		Model(&database.HistoryEntry{}).
		Where("session_id = ?", sessionId).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("error counting history: %w", err)
	}
	return count, nil
}

func (m *Manager) ClearHistory(ctx context.Context, sessionId uuid.UUID) error {
	if _, err := m.loggedIn(ctx, sessionId); err != nil {
		return err
	}

	if err := m.db.WithContext(ctx).Delete(&database.HistoryEntry{}, "session_id = ?", sessionId).Error; err != nil {
		return fmt.Errorf("error clearing history: %w", err)
	}
	return nil
}
