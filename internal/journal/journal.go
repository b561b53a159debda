// Package journal is the analytics collaborator: it consumes the
// notification surface (never the engine's internals) and keeps a durable
// ledger of severity transitions and starvation ticks.
package journal

import (
	"context"
	"time"
)

// EntryKind labels what a ledger row records.
type EntryKind string

const (
	KindSeverityChanged EntryKind = "SEVERITY_CHANGED"
	KindStarvationTick  EntryKind = "STARVATION_TICK"
)

// Entry is one row of the ledger.
type Entry struct {
	ID         int64     `json:"id"`
	RecordedAt time.Time `json:"recorded_at"`
	Kind       EntryKind `json:"kind"`
	Severity   string    `json:"severity,omitempty"`
	Fraction   float64   `json:"fraction"`
}

// Repository defines how journal entries are stored and queried.
type Repository interface {
	Append(ctx context.Context, entry Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// MemoryRepository is a slice-backed Repository for tests.
type MemoryRepository struct {
	entries []Entry
	nextID  int64
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1}
}

func (m *MemoryRepository) Append(ctx context.Context, entry Entry) error {
	entry.ID = m.nextID
	m.nextID++
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MemoryRepository) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > len(m.entries) {
		limit = len(m.entries)
	}
	out := make([]Entry, limit)
	copy(out, m.entries[len(m.entries)-limit:])
	// newest first
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// All returns every entry in append order. Test helper.
func (m *MemoryRepository) All() []Entry {
	return m.entries
}
