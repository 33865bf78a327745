// database/state_store.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/clearglobal/hdx-scraper/models"
)

// StateStore keeps the run state in the run_state table. Watermarks are
// stored as RFC 3339 text so the same schema works on MySQL and SQLite.
type StateStore struct {
	db               *sql.DB
	defaultWatermark time.Time
}

// NewStateStore returns a store that seeds DEFAULT with defaultWatermark when
// the table holds no DEFAULT row.
func NewStateStore(db *sql.DB, defaultWatermark time.Time) *StateStore {
	return &StateStore{db: db, defaultWatermark: defaultWatermark.UTC()}
}

func (s *StateStore) Load(ctx context.Context) (models.RunState, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT location_code, watermark FROM run_state`)
	if err != nil {
		return nil, fmt.Errorf("failed to query run_state: %w", err)
	}
	defer rows.Close()

	state := models.RunState{}
	for rows.Next() {
		var code, raw string
		if err := rows.Scan(&code, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan run_state row: %w", err)
		}
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("bad watermark %q for %s: %w", raw, code, err)
		}
		state[code] = t.UTC()
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run_state rows: %w", err)
	}
	if _, ok := state[models.DefaultWatermarkKey]; !ok {
		state[models.DefaultWatermarkKey] = s.defaultWatermark
	}
	return state, nil
}

// Save replaces the stored state with state in one transaction.
func (s *StateStore) Save(ctx context.Context, state models.RunState) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for run_state: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM run_state`); err != nil {
		return fmt.Errorf("failed to clear run_state: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_state (location_code, watermark, updated_at) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare run_state insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for code, t := range state {
		if _, err := stmt.ExecContext(ctx, code, t.UTC().Format(time.RFC3339Nano), now); err != nil {
			return fmt.Errorf("failed to save watermark for %s: %w", code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run_state: %w", err)
	}
	slog.DebugContext(ctx, "saved run state", "locations", len(state))
	return nil
}

// Ping reports whether the database is reachable.
func (s *StateStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
