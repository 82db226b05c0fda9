// Package journal records dataset load attempts in an in-memory SQLite
// table so operators can inspect recent loads without a log pipeline.
// Nothing is written to disk: the journal lives as long as the process.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/healthmetrics/healthmcp/internal/healthdata"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Load outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// DefaultLimit is the number of entries Recent returns when limit <= 0.
const DefaultLimit = 10

// Entry is one load attempt.
type Entry struct {
	ID         string            `json:"id"`
	StartedAt  time.Time         `json:"started_at"`
	DurationMS int64             `json:"duration_ms"`
	Bytes      int               `json:"bytes"`
	Outcome    string            `json:"outcome"`
	Error      string            `json:"error,omitempty"`
	Counts     healthdata.Counts `json:"counts"`
}

// Store is the load journal.
type Store struct {
	db *sql.DB
}

// New opens an in-memory journal.
func New() (*Store, error) {
	db, err := openDB("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("journal: open database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: migration: %w", err)
	}
	return s, nil
}

// Close releases the database. The journal contents are lost.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS loads (
			seq             INTEGER PRIMARY KEY AUTOINCREMENT,
			id              TEXT    NOT NULL UNIQUE,
			started_at      TEXT    NOT NULL,
			duration_ms     INTEGER NOT NULL,
			bytes           INTEGER NOT NULL DEFAULT 0,
			outcome         TEXT    NOT NULL,
			error           TEXT,
			activity_count  INTEGER NOT NULL DEFAULT 0,
			sleep_count     INTEGER NOT NULL DEFAULT 0,
			heart_count     INTEGER NOT NULL DEFAULT 0,
			nutrition_count INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_loads_started ON loads(started_at DESC);
	`)
	return err
}

// Record stores an entry and returns it with its ID filled in.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Outcome == "" {
		e.Outcome = OutcomeOK
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO loads (id, started_at, duration_ms, bytes, outcome, error,
			activity_count, sleep_count, heart_count, nutrition_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.StartedAt.UTC().Format(time.RFC3339Nano), e.DurationMS, e.Bytes,
		e.Outcome, nullableString(e.Error),
		e.Counts.Activity, e.Counts.Sleep, e.Counts.Heart, e.Counts.Nutrition,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("journal: record load: %w", err)
	}
	return e, nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, duration_ms, bytes, outcome, error,
			activity_count, sleep_count, heart_count, nutrition_count
		 FROM loads
		 ORDER BY seq DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: query recent: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e         Entry
			startedAt string
			errMsg    sql.NullString
		)
		if err := rows.Scan(&e.ID, &startedAt, &e.DurationMS, &e.Bytes, &e.Outcome, &errMsg,
			&e.Counts.Activity, &e.Counts.Sleep, &e.Counts.Heart, &e.Counts.Nutrition); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		if e.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("journal: started_at %q: %w", startedAt, err)
		}
		e.Error = errMsg.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
