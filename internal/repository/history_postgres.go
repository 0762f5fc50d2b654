package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/HIMASAKTA-DEV/project-wizard/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ HistoryArchive = &HistoryPostgres{}

// HistoryPostgres implements HistoryArchive on PostgreSQL, for deployments
// where several instances share one archive. Entries carry their full JSON
// payload; capacity is enforced inside the append transaction.
type HistoryPostgres struct {
	db       *pgxpool.Pool
	capacity int
}

func NewHistoryPostgres(db *pgxpool.Pool, capacity int) *HistoryPostgres {
	return &HistoryPostgres{
		db:       db,
		capacity: capacity,
	}
}

func (r *HistoryPostgres) Append(ctx context.Context, entry entity.HistoryEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode history entry: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin append transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO history_entries (id, created_at, project_name, payload) VALUES ($1, $2, $3, $4)`,
		entry.ID, entry.Timestamp, entry.ProjectName, payload,
	)
	if err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}

	_, err = tx.Exec(ctx,
		`DELETE FROM history_entries WHERE id NOT IN (
			SELECT id FROM history_entries ORDER BY created_at DESC, id LIMIT $1
		)`,
		r.capacity,
	)
	if err != nil {
		return fmt.Errorf("truncate history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit append transaction: %w", err)
	}
	return nil
}

func (r *HistoryPostgres) List(ctx context.Context) ([]entity.HistoryEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT payload FROM history_entries ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list history entries: %w", err)
	}
	defer rows.Close()

	var entries []entity.HistoryEntry
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}

		var entry entity.HistoryEntry
		if err := json.Unmarshal(payload, &entry); err != nil {
			return nil, fmt.Errorf("decode history entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *HistoryPostgres) Get(ctx context.Context, id string) (*entity.HistoryEntry, error) {
	var payload []byte
	err := r.db.QueryRow(ctx,
		`SELECT payload FROM history_entries WHERE id = $1`,
		id,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entity.ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get history entry: %w", err)
	}

	var entry entity.HistoryEntry
	if err := json.Unmarshal(payload, &entry); err != nil {
		return nil, fmt.Errorf("decode history entry: %w", err)
	}
	return &entry, nil
}

func (r *HistoryPostgres) SaveSessionID(ctx context.Context, sessionID string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO wizard_state (id, session_id) VALUES (1, $1)
		 ON CONFLICT (id) DO UPDATE SET session_id = EXCLUDED.session_id`,
		sessionID,
	)
	if err != nil {
		return fmt.Errorf("save session id: %w", err)
	}
	return nil
}

func (r *HistoryPostgres) LoadSessionID(ctx context.Context) (string, error) {
	var sessionID string
	err := r.db.QueryRow(ctx,
		`SELECT session_id FROM wizard_state WHERE id = 1`,
	).Scan(&sessionID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load session id: %w", err)
	}
	return sessionID, nil
}
