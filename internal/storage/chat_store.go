package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/workspace-agent/workspace-agent/internal/core"
)

// ChatStore persists completed chat turns.
type ChatStore struct {
	db *DB
}

// NewChatStore creates a chat store.
func NewChatStore(db *DB) *ChatStore {
	return &ChatStore{db: db}
}

// RecordTurn stores one completed (query, response) exchange. Satisfies
// the chat engine's turn sink contract.
func (s *ChatStore) RecordTurn(ctx context.Context, query, response string) error {
	_, err := s.db.conn.ExecContext(ctx, `
		INSERT INTO chat_history (id, user_query, agent_response, timestamp)
		VALUES (?, ?, ?, ?)
	`, uuid.NewString(), query, response, time.Now().UTC())
	return err
}

// RecentHistory returns the last N turns, oldest first. Satisfies the
// chat engine's history provider contract.
func (s *ChatStore) RecentHistory(ctx context.Context, limit int) ([]core.ChatTurn, error) {
	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT user_query, agent_response, timestamp
		FROM chat_history
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []core.ChatTurn
	for rows.Next() {
		var t core.ChatTurn
		if err := rows.Scan(&t.Query, &t.Response, &t.Timestamp); err != nil {
			return nil, err
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Newest-first from the query; callers want oldest first.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}

	return turns, nil
}

// Count returns the number of stored turns.
func (s *ChatStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM chat_history").Scan(&count)
	return count, err
}
