package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"

	"review-reply/internal/storage"

	"github.com/google/uuid"
)

// Archiver keeps a copy of every exported history file in an object store.
type Archiver struct {
	store storage.ObjectStore
}

func NewArchiver(store storage.ObjectStore) *Archiver {
	return &Archiver{store: store}
}

func ArchiveKey(sessionId uuid.UUID, fileName string) string {
	return path.Join("exports", sessionId.String(), fileName)
}

func (a *Archiver) Archive(ctx context.Context, sessionId uuid.UUID, fileName string, data []byte) (string, error) {
	key := ArchiveKey(sessionId, fileName)
	if err := a.store.PutObject(ctx, key, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("error archiving export: %w", err)
	}
	slog.Info("archived history export", "session_id", sessionId, "key", key, "bytes", len(data))
	return key, nil
}
