// Package history persists every handled utterance to SQLite so a session
// can be summarized and past commands inspected.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"spark/internal/intent"
	"spark/internal/logging"
)

// Entry is one recorded command.
type Entry struct {
	ID        string
	CreatedAt time.Time
	RawText   string
	Intent    string
	Success   bool
	Message   string
}

// Summary aggregates a stretch of history.
type Summary struct {
	Total       int
	Succeeded   int
	SuccessRate float64
}

// Store is a SQLite-backed command log. Safe for concurrent use.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

const schema = `
CREATE TABLE IF NOT EXISTS command_history (
	id         TEXT PRIMARY KEY,
	created_at TIMESTAMP NOT NULL,
	raw_text   TEXT NOT NULL,
	intent     TEXT NOT NULL,
	success    INTEGER NOT NULL,
	message    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_created ON command_history(created_at);
`

// Open initializes the store at the given path, creating the schema on
// first use.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.History("failed to set busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.History("failed to set journal_mode=WAL: %v", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	logging.History("history store opened at %s", path)
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends one handled utterance.
func (s *Store) Record(rawText string, in intent.Intent, success bool, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO command_history (id, created_at, raw_text, intent, success, message) VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), time.Now().UTC(), rawText, in.String(), boolToInt(success), message,
	)
	if err != nil {
		return fmt.Errorf("failed to record command: %w", err)
	}
	return nil
}

// Recent returns the n most recent entries, newest first.
func (s *Store) Recent(n int) ([]Entry, error) {
	if n <= 0 {
		n = 10
	}

	rows, err := s.db.Query(
		`SELECT id, created_at, raw_text, intent, success, message
		 FROM command_history ORDER BY created_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var success int
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.RawText, &e.Intent, &success, &e.Message); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.Success = success != 0
		out = append(out, e)
	}
	return out, rows.Err()
}

// Summarize aggregates all recorded commands.
func (s *Store) Summarize() (Summary, error) {
	var sum Summary
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(success), 0) FROM command_history`,
	).Scan(&sum.Total, &sum.Succeeded)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to summarize history: %w", err)
	}
	if sum.Total > 0 {
		sum.SuccessRate = float64(sum.Succeeded) / float64(sum.Total)
	}
	return sum, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
