package storage

import (
	"context"
	"encoding/json"
	"sync"
)

type memoryEntry struct {
	data    []byte
	version Version
	deleted bool
}

// MemoryStore keeps JSON-encoded values in process memory. Values are
// copied through encoding so callers never share state with the store.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (m *MemoryStore) Load(ctx context.Context, key string, dest interface{}) (Version, error) {
	m.mu.Lock()
	entry, ok := m.entries[key]
	m.mu.Unlock()

	if !ok || entry.deleted {
		return entry.version, ErrNotFound
	}
	if err := json.Unmarshal(entry.data, dest); err != nil {
		return NoVersion, err
	}
	return entry.version, nil
}

func (m *MemoryStore) Save(ctx context.Context, key string, value interface{}, expected Version) (Version, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return NoVersion, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.entries[key].version
	if err := checkVersion(current, expected); err != nil {
		return current, err
	}

	next := current + 1
	m.entries[key] = memoryEntry{data: data, version: next}
	return next, nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok || entry.deleted {
		return nil
	}
	m.entries[key] = memoryEntry{version: entry.version + 1, deleted: true}
	return nil
}
