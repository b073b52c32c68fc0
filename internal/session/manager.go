package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"review-reply/internal/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrInvalidPassword     = errors.New("incorrect password")
	ErrLoginRequired       = errors.New("login required")
	ErrSetupIncomplete     = errors.New("business profile setup is not complete")
	ErrProfileNameRequired = errors.New("business name is required")
	ErrPresetNotFound      = errors.New("preset not found")
)

type Manager struct {
	db      *gorm.DB
	gate    *Gate
	presets Presets
}

func NewManager(db *gorm.DB, gate *Gate, presets Presets) *Manager {
	if presets == nil {
		presets = Presets{}
	}
	return &Manager{db: db, gate: gate, presets: presets}
}

func (m *Manager) Presets() Presets {
	return m.presets
}

func (m *Manager) GateEnabled() bool {
	return m.gate.Enabled()
}

func (m *Manager) initialStage() string {
	if m.gate.Enabled() {
		return database.StageLogin
	}
	return database.StageProfile
}

func (m *Manager) Create(ctx context.Context) (database.Session, error) {
	session := database.Session{
		Id:           uuid.New(),
		Stage:        m.initialStage(),
		CreationTime: time.Now().UTC(),
	}

	if err := m.db.WithContext(ctx).Create(&session).Error; err != nil {
		slog.Error("error creating session", "error", err)
		return database.Session{}, fmt.Errorf("error creating session: %w", err)
	}

	slog.Info("created session", "session_id", session.Id, "stage", session.Stage)
	return session, nil
}

func (m *Manager) Get(ctx context.Context, sessionId uuid.UUID) (database.Session, error) {
	return getSession(m.db.WithContext(ctx), sessionId)
}

func getSession(txn *gorm.DB, sessionId uuid.UUID) (database.Session, error) {
	var session database.Session
	if err := txn.First(&session, "id = ?", sessionId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return session, ErrSessionNotFound
		}
		return session, fmt.Errorf("error loading session: %w", err)
	}
	return session, nil
}

func (m *Manager) Delete(ctx context.Context, sessionId uuid.UUID) error {
	return m.db.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		if _, err := getSession(txn, sessionId); err != nil {
			return err
		}
		if err := txn.Delete(&database.HistoryEntry{}, "session_id = ?", sessionId).Error; err != nil {
			return fmt.Errorf("error deleting session history: %w", err)
		}
		if err := txn.Delete(&database.Session{}, "id = ?", sessionId).Error; err != nil {
			return fmt.Errorf("error deleting session: %w", err)
		}
		return nil
	})
}

// update loads the session, applies fn and saves the result in a single
// transaction. The session is left untouched if fn returns an error.
func (m *Manager) update(ctx context.Context, sessionId uuid.UUID, fn func(s *database.Session) error) (database.Session, error) {
	var session database.Session
	err := m.db.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		var err error
		session, err = getSession(txn, sessionId)
		if err != nil {
			return err
		}

		if err := fn(&session); err != nil {
			return err
		}

		if err := txn.Save(&session).Error; err != nil {
			return fmt.Errorf("error saving session: %w", err)
		}
		return nil
	})
	return session, err
}

func (m *Manager) Login(ctx context.Context, sessionId uuid.UUID, password string) (database.Session, error) {
	return m.update(ctx, sessionId, func(s *database.Session) error {
		if s.Stage != database.StageLogin {
			return nil
		}
		if !m.gate.Check(password) {
			slog.Warn("failed login attempt", "session_id", s.Id)
			return ErrInvalidPassword
		}
		s.Stage = database.StageProfile
		return nil
	})
}

func (m *Manager) Logout(ctx context.Context, sessionId uuid.UUID) (database.Session, error) {
	return m.update(ctx, sessionId, func(s *database.Session) error {
		s.Stage = m.initialStage()
		s.Profile = database.BusinessProfile{}
		return nil
	})
}

func trimProfile(p database.BusinessProfile) database.BusinessProfile {
	return database.BusinessProfile{
		Name:        strings.TrimSpace(p.Name),
		Location:    strings.TrimSpace(p.Location),
		Services:    strings.TrimSpace(p.Services),
		ManagerName: strings.TrimSpace(p.ManagerName),
		BrandVoice:  strings.TrimSpace(p.BrandVoice),
	}
}

func (m *Manager) SubmitProfile(ctx context.Context, sessionId uuid.UUID, profile database.BusinessProfile) (database.Session, error) {
	profile = trimProfile(profile)
	return m.update(ctx, sessionId, func(s *database.Session) error {
		if s.Stage == database.StageLogin {
			return ErrLoginRequired
		}
		if profile.Name == "" {
			return ErrProfileNameRequired
		}
		s.Profile = profile
		s.Stage = database.StageReady
		return nil
	})
}

func (m *Manager) ApplyPreset(ctx context.Context, sessionId uuid.UUID, label string) (database.Session, error) {
	preset, ok := m.presets[label]
	if !ok {
		return database.Session{}, fmt.Errorf("%w: '%s'", ErrPresetNotFound, label)
	}

	return m.update(ctx, sessionId, func(s *database.Session) error {
		if s.Stage == database.StageLogin {
			return ErrLoginRequired
		}
		s.Profile = preset.Profile()
		s.Stage = database.StageReady
		return nil
	})
}

func (m *Manager) SkipProfile(ctx context.Context, sessionId uuid.UUID) (database.Session, error) {
	return m.update(ctx, sessionId, func(s *database.Session) error {
		if s.Stage == database.StageLogin {
			return ErrLoginRequired
		}
		s.Profile = database.BusinessProfile{}
		s.Stage = database.StageReady
		return nil
	})
}

func (m *Manager) EditProfile(ctx context.Context, sessionId uuid.UUID) (database.Session, error) {
	return m.update(ctx, sessionId, func(s *database.Session) error {
		if s.Stage == database.StageLogin {
			return ErrLoginRequired
		}
		s.Stage = database.StageProfile
		return nil
	})
}

// Ready returns the session if it has finished setup and can draft replies.
func (m *Manager) Ready(ctx context.Context, sessionId uuid.UUID) (database.Session, error) {
	session, err := m.Get(ctx, sessionId)
	if err != nil {
		return session, err
	}

	switch session.Stage {
	case database.StageLogin:
		return session, ErrLoginRequired
	case database.StageReady:
		return session, nil
	default:
		return session, ErrSetupIncomplete
	}
}
