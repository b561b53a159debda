package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrKeyNotFound is returned by Get when no value exists for a key.
var ErrKeyNotFound = errors.New("storage: key not found")

// InitSQLite opens the local SQLite database and creates the schemas for
// the key-value save store and the journal ledger.
func InitSQLite(dbPath string) (*sql.DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := createSchemas(db); err != nil {
		return nil, fmt.Errorf("failed to create schemas: %w", err)
	}

	return db, nil
}

func createSchemas(db *sql.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS journal (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			recorded_at DATETIME NOT NULL,
			kind TEXT NOT NULL,
			severity TEXT NOT NULL DEFAULT '',
			fraction REAL NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_journal_kind ON journal(kind);`,
	}

	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}

// SQLiteStore implements Store on top of the kv table. Sets are buffered
// in memory and written out on Flush, keeping save calls off the hot path.
type SQLiteStore struct {
	db     *sql.DB
	cache  map[string]string
	dirty  map[string]struct{}
	loaded bool
}

// NewSQLiteStore creates a Store backed by the kv table of db.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{
		db:    db,
		cache: make(map[string]string),
		dirty: make(map[string]struct{}),
	}
}

// load populates the cache from the kv table on first access.
func (s *SQLiteStore) load() error {
	if s.loaded {
		return nil
	}
	rows, err := s.db.Query(`SELECT key, value FROM kv`)
	if err != nil {
		return fmt.Errorf("failed to read kv table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return fmt.Errorf("failed to scan kv row: %w", err)
		}
		s.cache[key] = value
	}
	if err := rows.Err(); err != nil {
		return err
	}
	s.loaded = true
	return nil
}

func (s *SQLiteStore) Has(key string) bool {
	if err := s.load(); err != nil {
		return false
	}
	_, ok := s.cache[key]
	return ok
}

func (s *SQLiteStore) Get(key string) (string, error) {
	if err := s.load(); err != nil {
		return "", err
	}
	val, ok := s.cache[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return val, nil
}

func (s *SQLiteStore) Set(key, value string) error {
	if err := s.load(); err != nil {
		return err
	}
	s.cache[key] = value
	s.dirty[key] = struct{}{}
	return nil
}

// Flush writes all dirty keys to the kv table in one transaction.
func (s *SQLiteStore) Flush() error {
	if len(s.dirty) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin kv flush: %w", err)
	}

	query := `INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value`
	for key := range s.dirty {
		if _, err := tx.Exec(query, key, s.cache[key]); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to flush key %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit kv flush: %w", err)
	}
	s.dirty = make(map[string]struct{})
	return nil
}
