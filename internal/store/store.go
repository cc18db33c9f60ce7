// Package store keeps a session-scoped history of chat turns and report
// views in SQLite. The default DSN is in-memory, so nothing survives the
// process.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// MemoryDSN keeps the whole store in process memory.
const MemoryDSN = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS chat_messages (
	id         TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	role       TEXT NOT NULL,
	content    TEXT NOT NULL,
	sources    TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS report_views (
	id           TEXT PRIMARY KEY,
	session_id   TEXT NOT NULL,
	product_id   TEXT NOT NULL DEFAULT '',
	product_name TEXT NOT NULL DEFAULT '',
	report_type  TEXT NOT NULL,
	report_date  TEXT NOT NULL DEFAULT '',
	created_at   INTEGER NOT NULL
);
`

// Store records what happened during one run: every chat turn and every
// report that was displayed.
type Store struct {
	db        *sql.DB
	sessionID string
}

// Open opens the store at the given DSN, creating the schema if needed.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	// An in-memory SQLite database exists per connection; a second pooled
	// connection would see an empty schema.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, sessionID: uuid.NewString()}, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

// SessionID identifies the current run.
func (s *Store) SessionID() string { return s.sessionID }

// RecordMessage appends one chat turn.
func (s *Store) RecordMessage(role, content, sources string) error {
	_, err := s.db.Exec(`
		INSERT INTO chat_messages (id, session_id, role, content, sources, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), s.sessionID, role, content, sources, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("record message: %w", err)
	}
	return nil
}

// RecordReportView notes that a report was displayed.
func (s *Store) RecordReportView(productID, productName, reportType, reportDate string) error {
	_, err := s.db.Exec(`
		INSERT INTO report_views (id, session_id, product_id, product_name, report_type, report_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), s.sessionID, productID, productName, reportType, reportDate, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("record report view: %w", err)
	}
	return nil
}

// TranscriptEntry is one recorded chat turn.
type TranscriptEntry struct {
	Role      string
	Content   string
	Sources   string
	CreatedAt time.Time
}

// Transcript returns this session's chat turns in insert order.
func (s *Store) Transcript() ([]TranscriptEntry, error) {
	rows, err := s.db.Query(`
		SELECT role, content, sources, created_at
		FROM chat_messages
		WHERE session_id = ?
		ORDER BY created_at ASC, rowid ASC
	`, s.sessionID)
	if err != nil {
		return nil, fmt.Errorf("query transcript: %w", err)
	}
	defer rows.Close()

	var entries []TranscriptEntry
	for rows.Next() {
		var e TranscriptEntry
		var createdAt int64
		if err := rows.Scan(&e.Role, &e.Content, &e.Sources, &createdAt); err != nil {
			return nil, fmt.Errorf("scan transcript entry: %w", err)
		}
		e.CreatedAt = time.Unix(createdAt, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ReportViewCount returns how many report displays this session recorded.
func (s *Store) ReportViewCount() (int, error) {
	row := s.db.QueryRow(`SELECT COUNT(*) FROM report_views WHERE session_id = ?`, s.sessionID)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count report views: %w", err)
	}
	return n, nil
}
