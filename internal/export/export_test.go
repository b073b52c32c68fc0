package export_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"testing"
	"time"

	"review-reply/internal/database"
	"review-reply/internal/export"
	"review-reply/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseCSV(t *testing.T, data []byte) [][]string {
	require.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}), "missing utf-8 bom")
	rows, err := csv.NewReader(bytes.NewReader(data[3:])).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestRenderCSVRowCountMatchesHistory(t *testing.T) {
	ts := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	entries := []database.HistoryEntry{
		{Timestamp: ts, ClientLabel: "Seaside Inn", Review: "Great, \"cozy\" room", Reply: "Thank you,\nMaria", Sentiment: "Positive | Room"},
		{Timestamp: ts.Add(time.Minute), ClientLabel: "Café Luna", Review: "Cold coffee", Reply: "Sorry!"},
		{Timestamp: ts.Add(2 * time.Minute), ClientLabel: "General", Review: "Meh", Reply: "Thanks"},
	}

	data, err := export.RenderCSV(entries)
	require.NoError(t, err)

	rows := parseCSV(t, data)
	require.Len(t, rows, len(entries)+1)
	assert.Equal(t, export.Header, rows[0])
	assert.Equal(t, []string{"2025-03-14 09:30:00", "Seaside Inn", "Great, \"cozy\" room", "Thank you,\nMaria", "Positive | Room"}, rows[1])
	assert.Equal(t, "Café Luna", rows[2][1])
	assert.Equal(t, "", rows[2][4])
}

func TestRenderCSVEmptyHistory(t *testing.T) {
	data, err := export.RenderCSV(nil)
	require.NoError(t, err)

	rows := parseCSV(t, data)
	assert.Equal(t, [][]string{export.Header}, rows)
}

func TestFileName(t *testing.T) {
	name := export.FileName(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	assert.Equal(t, "review_replies_20250102_030405.csv", name)
}

func TestArchiver(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewLocalObjectStore(t.TempDir())
	require.NoError(t, err)

	sessionId := uuid.New()
	key, err := export.NewArchiver(store).Archive(ctx, sessionId, "history.csv", []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, "exports/"+sessionId.String()+"/history.csv", key)

	obj, err := store.GetObject(ctx, key)
	require.NoError(t, err)
	defer obj.Close()
	content, err := io.ReadAll(obj)
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))
}
