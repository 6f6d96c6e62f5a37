package eventsource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists event streams in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS events (
	aggregate_id TEXT NOT NULL,
	version      INTEGER NOT NULL,
	id           TEXT NOT NULL,
	type         TEXT NOT NULL,
	data         BLOB,
	created_at   TEXT NOT NULL,
	PRIMARY KEY (aggregate_id, version)
);
`

// NewSQLiteStore opens (and if needed creates) a store at the given DSN.
// Use ":memory:" for an ephemeral database.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("eventsource: open sqlite: %w", err)
	}
	// The journal is a single-writer stream; one connection avoids
	// modernc.org/sqlite lock contention on concurrent appends.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("eventsource: create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Append implements Store.
func (s *SQLiteStore) Append(ctx context.Context, aggregateID string, expectedVersion int, events []*Event) (int, error) {
	if len(events) == 0 {
		return expectedVersion, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var head sql.NullInt64
	err = tx.QueryRowContext(ctx,
		`SELECT MAX(version) FROM events WHERE aggregate_id = ?`, aggregateID).Scan(&head)
	if err != nil {
		return 0, err
	}
	current := -1
	if head.Valid {
		current = int(head.Int64)
	}
	if current != expectedVersion {
		return current, fmt.Errorf("%w: stream at %d, expected %d", ErrVersionConflict, current, expectedVersion)
	}

	version := expectedVersion
	for _, event := range events {
		version++
		event.Version = version
		_, err = tx.ExecContext(ctx,
			`INSERT INTO events (aggregate_id, version, id, type, data, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			aggregateID, version, event.ID, event.Type, event.Data, event.CreatedAt.Format(time.RFC3339Nano))
		if err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return version, nil
}

// Read implements Store.
func (s *SQLiteStore) Read(ctx context.Context, aggregateID string, fromVersion int) ([]*Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, version, data, created_at FROM events
		 WHERE aggregate_id = ? AND version >= ? ORDER BY version`,
		aggregateID, fromVersion)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Event
	for rows.Next() {
		event := &Event{AggregateID: aggregateID}
		var createdAt string
		if err := rows.Scan(&event.ID, &event.Type, &event.Version, &event.Data, &createdAt); err != nil {
			return nil, err
		}
		ts, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, errors.New("eventsource: malformed created_at")
		}
		event.CreatedAt = ts
		out = append(out, event)
	}
	return out, rows.Err()
}

var _ Store = (*SQLiteStore)(nil)
