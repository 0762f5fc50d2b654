package repository

import (
	"context"

	"github.com/HIMASAKTA-DEV/project-wizard/internal/entity"
)

// PersistedState is the durable record of the application: only the capped
// history log and the session identity survive restarts. Transient interview
// state is never persisted.
type PersistedState struct {
	SessionID  string                `json:"sessionId"`
	HistoryLog []entity.HistoryEntry `json:"historyLog"`
}

// HistoryArchive owns the capped, ordered log of completed interviews.
// Append prepends the entry and evicts the oldest entries beyond the
// configured capacity; the read-modify-write is one critical section so
// concurrent completions cannot corrupt the log's shape.
type HistoryArchive interface {
	Append(ctx context.Context, entry entity.HistoryEntry) error
	List(ctx context.Context) ([]entity.HistoryEntry, error)
	Get(ctx context.Context, id string) (*entity.HistoryEntry, error)
	SaveSessionID(ctx context.Context, sessionID string) error
	LoadSessionID(ctx context.Context) (string, error)
}
