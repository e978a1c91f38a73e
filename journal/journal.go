// Package journal persists relayed messages so the operator can review recent
// traffic. It is an audit trail only; session state never touches the
// database and the relay works without one.
package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Direction of a relayed message.
const (
	DirectionInbound  = "in"  // user -> operator
	DirectionOutbound = "out" // operator -> user
)

// ErrDisabled is returned by read operations when no database is configured.
var ErrDisabled = errors.New("journal: disabled")

// Entry is one relayed message.
type Entry struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Direction string    `db:"direction"`
	Category  string    `db:"category"`
	Body      string    `db:"body"`
	CreatedAt time.Time `db:"created_at"`
}

// Recorder stores and lists relayed messages.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// Store is the Postgres-backed Recorder.
type Store struct {
	db *sqlx.DB
}

// NewStore wraps an open database handle.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Record inserts a single relayed message.
func (s *Store) Record(ctx context.Context, e Entry) error {
	const q = `INSERT INTO relay_journal (user_id, direction, category, body) VALUES ($1, $2, $3, $4)`
	if _, err := s.db.ExecContext(ctx, q, e.UserID, e.Direction, e.Category, e.Body); err != nil {
		return fmt.Errorf("journal insert: %w", err)
	}
	return nil
}

// Recent returns the newest entries, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	const q = `SELECT id, user_id, direction, category, body, created_at
		FROM relay_journal ORDER BY id DESC LIMIT $1`
	var out []Entry
	if err := s.db.SelectContext(ctx, &out, q, limit); err != nil {
		return nil, fmt.Errorf("journal select: %w", err)
	}
	return out, nil
}

// Nop is the Recorder used when no database is configured. Writes succeed
// silently; reads report ErrDisabled.
type Nop struct{}

// Record discards the entry.
func (Nop) Record(context.Context, Entry) error { return nil }

// Recent reports that the journal is disabled.
func (Nop) Recent(context.Context, int) ([]Entry, error) { return nil, ErrDisabled }
