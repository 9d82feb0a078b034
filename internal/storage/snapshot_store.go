package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/workspace-agent/workspace-agent/internal/core"
)

// SnapshotStore persists one observation snapshot per day.
type SnapshotStore struct {
	db *DB
}

// NewSnapshotStore creates a snapshot store.
func NewSnapshotStore(db *DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// DateKey renders a time as the store's date key.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Save stores or replaces the snapshot and insights for a date.
func (s *SnapshotStore) Save(ctx context.Context, date string, snap *core.Snapshot, insights *core.Insights) error {
	observations, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	insightsJSON := []byte("{}")
	if insights != nil {
		insightsJSON, err = json.Marshal(insights)
		if err != nil {
			return err
		}
	}

	_, err = s.db.conn.ExecContext(ctx, `
		INSERT INTO daily_snapshots (date, observations, insights, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(date) DO UPDATE SET
		    observations = excluded.observations,
		    insights = excluded.insights,
		    updated_at = CURRENT_TIMESTAMP
	`, date, string(observations), string(insightsJSON))

	return err
}

// ByDate returns the snapshot and insights for a date.
func (s *SnapshotStore) ByDate(ctx context.Context, date string) (*core.Snapshot, *core.Insights, error) {
	var observations, insightsJSON string
	err := s.db.conn.QueryRowContext(ctx,
		"SELECT observations, insights FROM daily_snapshots WHERE date = ?", date,
	).Scan(&observations, &insightsJSON)

	if err == sql.ErrNoRows {
		return nil, nil, core.ErrNoSnapshot
	}
	if err != nil {
		return nil, nil, err
	}

	snap := &core.Snapshot{}
	if err := json.Unmarshal([]byte(observations), snap); err != nil {
		return nil, nil, err
	}

	insights := &core.Insights{}
	if err := json.Unmarshal([]byte(insightsJSON), insights); err != nil {
		// Insights are best-effort; a corrupt blob doesn't lose the snapshot.
		insights = &core.Insights{}
	}

	return snap, insights, nil
}

// CurrentSnapshot returns today's snapshot. Satisfies the chat engine's
// snapshot provider contract.
func (s *SnapshotStore) CurrentSnapshot(ctx context.Context) (*core.Snapshot, error) {
	snap, _, err := s.ByDate(ctx, DateKey(time.Now()))
	if err != nil {
		return nil, err
	}
	return snap, nil
}
