package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/workspace-agent/workspace-agent/internal/core"
)

// ReportStore persists end-of-day reports, one per date.
type ReportStore struct {
	db *DB
}

// NewReportStore creates a report store.
func NewReportStore(db *DB) *ReportStore {
	return &ReportStore{db: db}
}

// Report is a stored end-of-day report.
type Report struct {
	Date    string `json:"date"`
	Content string `json:"content"`
}

// Save stores or replaces the report for a date.
func (s *ReportStore) Save(ctx context.Context, date, content string) error {
	_, err := s.db.conn.ExecContext(ctx, `
		INSERT INTO eod_reports (date, content, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(date) DO UPDATE SET
		    content = excluded.content,
		    updated_at = CURRENT_TIMESTAMP
	`, date, content)
	return err
}

// Latest returns the most recent report.
func (s *ReportStore) Latest(ctx context.Context) (*Report, error) {
	var r Report
	err := s.db.conn.QueryRowContext(ctx,
		"SELECT date, content FROM eod_reports ORDER BY date DESC LIMIT 1",
	).Scan(&r.Date, &r.Content)

	if err == sql.ErrNoRows {
		return nil, core.ErrNoReport
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// RecentSummaries returns reports from the past N days, newest first.
func (s *ReportStore) RecentSummaries(ctx context.Context, days int) ([]Report, error) {
	start := DateKey(time.Now().AddDate(0, 0, -days))
	end := DateKey(time.Now())

	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT date, content FROM eod_reports
		WHERE date >= ? AND date <= ?
		ORDER BY date DESC
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		var r Report
		if err := rows.Scan(&r.Date, &r.Content); err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}

	return reports, rows.Err()
}
