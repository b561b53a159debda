package journal

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLiteRepository implements Repository on the journal table created by
// storage.InitSQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a ledger backed by db.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Append(ctx context.Context, entry Entry) error {
	query := `INSERT INTO journal (recorded_at, kind, severity, fraction) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, entry.RecordedAt, string(entry.Kind), entry.Severity, entry.Fraction)
	if err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, recorded_at, kind, severity, fraction FROM journal ORDER BY id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var kind string
		if err := rows.Scan(&e.ID, &e.RecordedAt, &kind, &e.Severity, &e.Fraction); err != nil {
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		e.Kind = EntryKind(kind)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
