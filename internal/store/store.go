// Package store persists evaluation outcomes to PostgreSQL as an
// append-only access-event log. The log is optional: deployments without a
// database run the pipeline without it.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/nmarceau/facegate/internal/engine"
)

// Store manages the PostgreSQL connection for the access-event log.
type Store struct {
	conn *pgx.Conn
}

// Event is one recorded evaluation outcome.
type Event struct {
	ID         int64
	Kind       string
	SecretOK   bool
	Label      string
	PhotoPath  string
	Detail     string
	OccurredAt time.Time
}

// New establishes a connection to the database and ensures the schema is initialized.
func New(ctx context.Context, connString string) (*Store, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, err
	}

	// Initialize schema (Auto-Migration)
	if err := initSchema(ctx, conn); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	return &Store{conn: conn}, nil
}

// initSchema creates the event table if it doesn't exist.
func initSchema(ctx context.Context, conn *pgx.Conn) error {
	query := `
		CREATE TABLE IF NOT EXISTS access_events (
			id BIGSERIAL PRIMARY KEY,
			kind TEXT NOT NULL,
			secret_ok BOOLEAN NOT NULL,
			label TEXT NOT NULL DEFAULT '',
			photo_path TEXT NOT NULL DEFAULT '',
			detail TEXT NOT NULL DEFAULT '',
			occurred_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS access_events_occurred_at_idx ON access_events (occurred_at DESC);
	`
	_, err := conn.Exec(ctx, query)
	return err
}

// Close terminates the database connection.
func (s *Store) Close(ctx context.Context) {
	s.conn.Close(ctx)
}

// RecordOutcome appends one evaluation outcome to the log.
func (s *Store) RecordOutcome(ctx context.Context, o engine.Outcome) error {
	_, err := s.conn.Exec(ctx, `
		INSERT INTO access_events (kind, secret_ok, label, photo_path, detail)
		VALUES ($1, $2, $3, $4, $5)
	`, o.Kind.String(), o.SecretOK, o.Label, o.PhotoPath, o.Detail)
	return err
}

// ListEvents returns the most recent events, newest first.
func (s *Store) ListEvents(ctx context.Context, limit int) ([]Event, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT id, kind, secret_ok, label, photo_path, detail, occurred_at
		FROM access_events
		ORDER BY occurred_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.Kind, &ev.SecretOK, &ev.Label, &ev.PhotoPath, &ev.Detail, &ev.OccurredAt); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Reset drops the event log.
func (s *Store) Reset(ctx context.Context) error {
	_, err := s.conn.Exec(ctx, `DROP TABLE IF EXISTS access_events`)
	return err
}
