package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
)

const recordName = "query_history"

// Store keeps the history list in a local SQLite key-value table. The whole
// list lives under a single record and is replaced wholesale on Save.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (and if necessary creates) the store at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	createKVTable := `
	CREATE TABLE IF NOT EXISTS kv (
		name TEXT PRIMARY KEY,
		payload TEXT
	);`

	if _, err := db.Exec(createKVTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Load returns the saved history list. A missing record or a payload that
// fails to parse degrades to an empty list; corruption is logged, never
// surfaced.
func (s *Store) Load() []Entry {
	var payload string
	err := s.db.QueryRow("SELECT payload FROM kv WHERE name = ?", recordName).Scan(&payload)
	if err == sql.ErrNoRows {
		return []Entry{}
	}
	if err != nil {
		s.logger.Warn("failed to read history record, starting empty", "error", err)
		return []Entry{}
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(payload), &entries); err != nil {
		s.logger.Warn("discarding malformed history payload", "error", err)
		return []Entry{}
	}
	return entries
}

// Save overwrites the stored list wholesale.
func (s *Store) Save(entries []Entry) error {
	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO kv (name, payload) VALUES (?, ?)",
		recordName, string(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}

	s.logger.Info("history saved", "entries", len(entries))
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
