// Package storage provides the persistence layer for the sustenance server.
// The simulation core depends only on the Store interface; the concrete
// backing (SQLite, in-memory) is wired at startup.
package storage

// Store is a small key-value byte/string store. Writes are expected to be
// cheap enough for the simulation's save cadence; durability beyond the
// process is only guaranteed after Flush.
type Store interface {
	// Has reports whether a value exists for key.
	Has(key string) bool

	// Get returns the value for key. A missing key is an error.
	Get(key string) (string, error)

	// Set stores value under key.
	Set(key, value string) error

	// Flush forces any buffered writes to durable storage.
	Flush() error
}

// MemoryStore is a map-backed Store for tests and ephemeral runs.
type MemoryStore struct {
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

func (m *MemoryStore) Get(key string) (string, error) {
	val, ok := m.values[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return val, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Flush() error {
	return nil
}
