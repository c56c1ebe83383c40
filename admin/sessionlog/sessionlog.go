// Package sessionlog records a DAIDE client session's lifecycle
// (connect/register/disconnect) to Postgres for operational review. It is
// deliberately NOT game state: it never stores Gameboard contents, units,
// orders or results, and nothing ever reads it back into a running
// session. It exists purely so an operator can answer "when did session
// X connect, as which power, and why did it end".
package sessionlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Connect opens a connection pool to the session audit database.
func Connect(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("sessionlog: open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("sessionlog: ping: %w", err)
	}
	return db, nil
}

// Schema is the audit table's DDL, applied once at fleet startup.
const Schema = `
CREATE TABLE IF NOT EXISTS client_sessions (
	id              TEXT PRIMARY KEY,
	host            TEXT NOT NULL,
	power           TEXT NOT NULL DEFAULT '',
	has_passcode    BOOLEAN NOT NULL DEFAULT false,
	observer        BOOLEAN NOT NULL DEFAULT false,
	strategy        TEXT NOT NULL DEFAULT '',
	started_at      TIMESTAMPTZ NOT NULL,
	ended_at        TIMESTAMPTZ,
	end_reason      TEXT NOT NULL DEFAULT ''
)`

// Repo records session lifecycle events.
type Repo struct {
	db *sql.DB
}

// NewRepo creates a Repo and ensures its table exists.
func NewRepo(db *sql.DB) (*Repo, error) {
	if _, err := db.Exec(Schema); err != nil {
		return nil, fmt.Errorf("sessionlog: migrate: %w", err)
	}
	return &Repo{db: db}, nil
}

// RecordStart inserts a row for a session that just began registering.
func (r *Repo) RecordStart(ctx context.Context, sessionID, host, strategy string, observer bool) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO client_sessions (id, host, observer, strategy, started_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO NOTHING`,
		sessionID, host, observer, strategy, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("sessionlog: record start: %w", err)
	}
	return nil
}

// RecordRegistered updates a session's row once HLO assigns a power.
func (r *Repo) RecordRegistered(ctx context.Context, sessionID, power string, hasPasscode bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE client_sessions SET power = $1, has_passcode = $2 WHERE id = $3`,
		power, hasPasscode, sessionID,
	)
	if err != nil {
		return fmt.Errorf("sessionlog: record registered: %w", err)
	}
	return nil
}

// RecordEnd marks a session's row as finished with a human-readable reason
// ("clean_close", "transport_error", "handshake_rejected", ...).
func (r *Repo) RecordEnd(ctx context.Context, sessionID, reason string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE client_sessions SET ended_at = $1, end_reason = $2 WHERE id = $3`,
		time.Now().UTC(), reason, sessionID,
	)
	if err != nil {
		return fmt.Errorf("sessionlog: record end: %w", err)
	}
	return nil
}

// Summary is one row of the session audit log, as exposed over the admin
// HTTP surface.
type Summary struct {
	ID          string     `json:"id"`
	Host        string     `json:"host"`
	Power       string     `json:"power"`
	HasPasscode bool       `json:"has_passcode"`
	Observer    bool       `json:"observer"`
	Strategy    string     `json:"strategy"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
	EndReason   string     `json:"end_reason,omitempty"`
}

// ListRecent returns the most recent sessions, newest first.
func (r *Repo) ListRecent(ctx context.Context, limit int) ([]Summary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, host, power, has_passcode, observer, strategy, started_at, ended_at, end_reason
		 FROM client_sessions ORDER BY started_at DESC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sessionlog: list recent: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		var ended sql.NullTime
		if err := rows.Scan(&s.ID, &s.Host, &s.Power, &s.HasPasscode, &s.Observer, &s.Strategy, &s.StartedAt, &ended, &s.EndReason); err != nil {
			return nil, fmt.Errorf("sessionlog: scan: %w", err)
		}
		if ended.Valid {
			s.EndedAt = &ended.Time
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
