package migration_1

import (
	"testing"
	"time"

	"review-reply/internal/database/versions/migration_0"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type NewHistoryEntry struct {
	Id        uint
	SessionId uuid.UUID
	Review    string
	Sentiment string
}

func (NewHistoryEntry) TableName() string {
	return "history_entries"
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, migration_0.Migration(db))

	return db
}

func TestMigration_AddsSentimentAndSettings(t *testing.T) {
	db := setupTestDB(t)

	sessionId := uuid.New()
	require.NoError(t, db.Create(&migration_0.Session{Id: sessionId, Stage: "READY", CreationTime: time.Now()}).Error)
	require.NoError(t, db.Create(&migration_0.HistoryEntry{SessionId: sessionId, Review: "Great stay", Reply: "Thanks!", Timestamp: time.Now()}).Error)

	require.NoError(t, Migration(db))

	assert.True(t, db.Migrator().HasColumn(&HistoryEntry{}, "Sentiment"))
	assert.True(t, db.Migrator().HasColumn(&HistoryEntry{}, "Settings"))

	var entries []NewHistoryEntry
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, "Great stay", entries[0].Review)
	assert.Equal(t, "", entries[0].Sentiment)
}

func TestRollback(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Migration(db))
	require.NoError(t, Rollback(db))

	assert.False(t, db.Migrator().HasColumn(&HistoryEntry{}, "Sentiment"))
	assert.False(t, db.Migrator().HasColumn(&HistoryEntry{}, "Settings"))
}
