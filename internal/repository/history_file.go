package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/HIMASAKTA-DEV/project-wizard/internal/entity"
	"go.uber.org/zap"
)

var _ HistoryArchive = &HistoryFile{}

// HistoryFile implements HistoryArchive on a single JSON document. Writes go
// through a temp file and rename so a crash mid-write never leaves a
// truncated log behind.
type HistoryFile struct {
	path     string
	capacity int
	logger   *zap.Logger

	mu sync.Mutex
}

func NewHistoryFile(path string, capacity int, logger *zap.Logger) (*HistoryFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	return &HistoryFile{
		path:     path,
		capacity: capacity,
		logger:   logger,
	}, nil
}

func (r *HistoryFile) Append(ctx context.Context, entry entity.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, err := r.load()
	if err != nil {
		return err
	}

	state.HistoryLog = append([]entity.HistoryEntry{entry}, state.HistoryLog...)
	if len(state.HistoryLog) > r.capacity {
		state.HistoryLog = state.HistoryLog[:r.capacity]
	}

	return r.save(state)
}

func (r *HistoryFile) List(ctx context.Context) ([]entity.HistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, err := r.load()
	if err != nil {
		return nil, err
	}
	return state.HistoryLog, nil
}

func (r *HistoryFile) Get(ctx context.Context, id string) (*entity.HistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, err := r.load()
	if err != nil {
		return nil, err
	}

	for i := range state.HistoryLog {
		if state.HistoryLog[i].ID == id {
			return &state.HistoryLog[i], nil
		}
	}
	return nil, entity.ErrEntryNotFound
}

func (r *HistoryFile) SaveSessionID(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, err := r.load()
	if err != nil {
		return err
	}

	state.SessionID = sessionID
	return r.save(state)
}

func (r *HistoryFile) LoadSessionID(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, err := r.load()
	if err != nil {
		return "", err
	}
	return state.SessionID, nil
}

// load reads the persisted state; a missing file is a fresh, empty state.
// A corrupt file is logged and replaced rather than wedging the archive.
func (r *HistoryFile) load() (*PersistedState, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &PersistedState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}

	var state PersistedState
	if err := json.Unmarshal(data, &state); err != nil {
		r.logger.Warn("history file is corrupt, starting with an empty archive",
			zap.String("path", r.path),
			zap.Error(err),
		)
		return &PersistedState{}, nil
	}
	return &state, nil
}

func (r *HistoryFile) save(state *PersistedState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history state: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace history file: %w", err)
	}
	return nil
}
