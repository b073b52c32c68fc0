package session_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"review-reply/internal/database"
	"review-reply/internal/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createManager(t *testing.T, password string) *session.Manager {
	db, err := database.NewDatabase("file::memory:")
	require.NoError(t, err)

	gate, err := session.NewGate(password)
	require.NoError(t, err)

	return session.NewManager(db, gate, session.DefaultPresets())
}

func TestSetupFlowWithGate(t *testing.T) {
	ctx := context.Background()
	m := createManager(t, "letmein")

	s, err := m.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, database.StageLogin, s.Stage)

	_, err = m.SubmitProfile(ctx, s.Id, database.BusinessProfile{Name: "Cafe"})
	assert.ErrorIs(t, err, session.ErrLoginRequired)

	_, err = m.Ready(ctx, s.Id)
	assert.ErrorIs(t, err, session.ErrLoginRequired)

	_, err = m.Login(ctx, s.Id, "wrong")
	assert.ErrorIs(t, err, session.ErrInvalidPassword)
	s, err = m.Get(ctx, s.Id)
	require.NoError(t, err)
	assert.Equal(t, database.StageLogin, s.Stage)

	s, err = m.Login(ctx, s.Id, "letmein")
	require.NoError(t, err)
	assert.Equal(t, database.StageProfile, s.Stage)

	_, err = m.Ready(ctx, s.Id)
	assert.ErrorIs(t, err, session.ErrSetupIncomplete)

	_, err = m.SubmitProfile(ctx, s.Id, database.BusinessProfile{Location: "Lisbon"})
	assert.ErrorIs(t, err, session.ErrProfileNameRequired)

	s, err = m.SubmitProfile(ctx, s.Id, database.BusinessProfile{Name: "  Seaside Inn ", Location: "Lisbon", ManagerName: "Maria"})
	require.NoError(t, err)
	assert.Equal(t, database.StageReady, s.Stage)
	assert.Equal(t, "Seaside Inn", s.Profile.Name)

	s, err = m.Ready(ctx, s.Id)
	require.NoError(t, err)
	assert.Equal(t, "Maria", s.Profile.ManagerName)

	s, err = m.EditProfile(ctx, s.Id)
	require.NoError(t, err)
	assert.Equal(t, database.StageProfile, s.Stage)
	assert.Equal(t, "Seaside Inn", s.Profile.Name)

	s, err = m.Logout(ctx, s.Id)
	require.NoError(t, err)
	assert.Equal(t, database.StageLogin, s.Stage)
	assert.True(t, s.Profile.IsEmpty())
}

func TestHistoryRequiresLogin(t *testing.T) {
	ctx := context.Background()
	m := createManager(t, "letmein")

	s, err := m.Create(ctx)
	require.NoError(t, err)

	_, err = m.AppendHistory(ctx, s.Id, session.NewHistoryEntry{Review: "x", Reply: "y"})
	assert.ErrorIs(t, err, session.ErrLoginRequired)
	_, err = m.ListHistory(ctx, s.Id)
	assert.ErrorIs(t, err, session.ErrLoginRequired)
	assert.ErrorIs(t, m.ClearHistory(ctx, s.Id), session.ErrLoginRequired)

	count, err := m.HistoryCount(ctx, s.Id)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = m.Login(ctx, s.Id, "letmein")
	require.NoError(t, err)

	_, err = m.AppendHistory(ctx, s.Id, session.NewHistoryEntry{Review: "x", Reply: "y"})
	require.NoError(t, err)
	history, err := m.ListHistory(ctx, s.Id)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestSetupFlowWithoutGate(t *testing.T) {
	ctx := context.Background()
	m := createManager(t, "")
	assert.False(t, m.GateEnabled())

	s, err := m.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, database.StageProfile, s.Stage)

	s, err = m.SkipProfile(ctx, s.Id)
	require.NoError(t, err)
	assert.Equal(t, database.StageReady, s.Stage)
	assert.True(t, s.Profile.IsEmpty())

	s, err = m.Logout(ctx, s.Id)
	require.NoError(t, err)
	assert.Equal(t, database.StageProfile, s.Stage)
}

func TestApplyPreset(t *testing.T) {
	ctx := context.Background()
	m := createManager(t, "")

	s, err := m.Create(ctx)
	require.NoError(t, err)

	_, err = m.ApplyPreset(ctx, s.Id, "Bowling Alley")
	assert.ErrorIs(t, err, session.ErrPresetNotFound)

	s, err = m.ApplyPreset(ctx, s.Id, "Restaurant")
	require.NoError(t, err)
	assert.Equal(t, database.StageReady, s.Stage)
	assert.Equal(t, "Trattoria Bella", s.Profile.Name)
	assert.Equal(t, "Giulia Rossi", s.Profile.ManagerName)
}

func TestUnknownSession(t *testing.T) {
	ctx := context.Background()
	m := createManager(t, "")

	_, err := m.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	_, err = m.SkipProfile(ctx, uuid.New())
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	_, err = m.AppendHistory(ctx, uuid.New(), session.NewHistoryEntry{Review: "x", Reply: "y"})
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	assert.ErrorIs(t, m.Delete(ctx, uuid.New()), session.ErrSessionNotFound)
}

func TestHistoryAppendPreservesOrder(t *testing.T) {
	ctx := context.Background()
	m := createManager(t, "")

	s, err := m.Create(ctx)
	require.NoError(t, err)
	s, err = m.SubmitProfile(ctx, s.Id, database.BusinessProfile{Name: "Seaside Inn"})
	require.NoError(t, err)

	other, err := m.Create(ctx)
	require.NoError(t, err)
	_, err = m.AppendHistory(ctx, other.Id, session.NewHistoryEntry{Review: "other", Reply: "other"})
	require.NoError(t, err)

	for i, review := range []string{"first", "second", "third"} {
		_, err := m.AppendHistory(ctx, s.Id, session.NewHistoryEntry{
			Review:   review,
			Reply:    "reply to " + review,
			Settings: database.DraftSettings{Tone: "Friendly"},
		})
		require.NoError(t, err)

		count, err := m.HistoryCount(ctx, s.Id)
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), count)
	}

	history, err := m.ListHistory(ctx, s.Id)
	require.NoError(t, err)
	require.Len(t, history, 3)
	for i, review := range []string{"first", "second", "third"} {
		assert.Equal(t, review, history[i].Review)
		assert.Equal(t, "Seaside Inn", history[i].ClientLabel)
		assert.JSONEq(t, `{"tone":"Friendly"}`, string(history[i].Settings))
	}

	require.NoError(t, m.ClearHistory(ctx, s.Id))
	history, err = m.ListHistory(ctx, s.Id)
	require.NoError(t, err)
	assert.Empty(t, history)

	otherHistory, err := m.ListHistory(ctx, other.Id)
	require.NoError(t, err)
	require.Len(t, otherHistory, 1)
	assert.Equal(t, session.DefaultClientLabel, otherHistory[0].ClientLabel)
}

func TestDeleteSession(t *testing.T) {
	ctx := context.Background()
	m := createManager(t, "")

	s, err := m.Create(ctx)
	require.NoError(t, err)
	_, err = m.AppendHistory(ctx, s.Id, session.NewHistoryEntry{ClientLabel: "VIP", Review: "x", Reply: "y"})
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, s.Id))

	_, err = m.Get(ctx, s.Id)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
	count, err := m.HistoryCount(ctx, s.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestTruncateReview(t *testing.T) {
	assert.Equal(t, "short review", session.TruncateReview("  short review "))

	long := strings.Repeat("é", 60)
	truncated := session.TruncateReview(long)
	assert.Equal(t, strings.Repeat("é", 50)+"...", truncated)

	exact := strings.Repeat("a", 50)
	assert.Equal(t, exact, session.TruncateReview(exact))
}

func TestGate(t *testing.T) {
	gate, err := session.NewGate("")
	require.NoError(t, err)
	assert.False(t, gate.Enabled())
	assert.True(t, gate.Check("anything"))

	gate, err = session.NewGate("secret")
	require.NoError(t, err)
	assert.True(t, gate.Enabled())
	assert.True(t, gate.Check("secret"))
	assert.False(t, gate.Check("Secret"))
}

func TestLoadPresets(t *testing.T) {
	presets, err := session.LoadPresets("")
	require.NoError(t, err)
	assert.Equal(t, []string{"Dental Clinic", "Hotel", "Restaurant"}, presets.Labels())

	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`presets:
  Spa:
    name: Lotus Spa
    location: Harbour
    services: massage, sauna
    manager_name: Kim
    brand_voice: serene
`), 0644))

	presets, err = session.LoadPresets(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Spa"}, presets.Labels())
	assert.Equal(t, database.BusinessProfile{Name: "Lotus Spa", Location: "Harbour", Services: "massage, sauna", ManagerName: "Kim", BrandVoice: "serene"}, presets["Spa"].Profile())

	require.NoError(t, os.WriteFile(path, []byte("presets:\n  Broken:\n    location: nowhere\n"), 0644))
	_, err = session.LoadPresets(path)
	assert.Error(t, err)
}
