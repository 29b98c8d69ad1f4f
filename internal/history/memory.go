package history

import (
	"context"
	"sync"
)

// MemoryStore is a map-backed Store. Errors can be injected to simulate
// an unreachable sync service.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string][]byte
	getErr error
	setErr error
	sets   int
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string][]byte{}}
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, keys []string) (map[string][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := make(map[string][]byte, len(keys))
	for _, key := range keys {
		if v, ok := m.values[key]; ok {
			out[key] = append([]byte(nil), v...)
		}
	}
	return out, nil
}

// Set implements Store.
func (m *MemoryStore) Set(_ context.Context, entries map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	for key, v := range entries {
		m.values[key] = append([]byte(nil), v...)
	}
	m.sets++
	return nil
}

// FailGets makes subsequent Gets return err. A nil err clears it.
func (m *MemoryStore) FailGets(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getErr = err
}

// FailSets makes subsequent Sets return err. A nil err clears it.
func (m *MemoryStore) FailSets(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setErr = err
}

// Writes returns the number of successful Sets.
func (m *MemoryStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}
