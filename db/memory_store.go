package db

import (
	"context"
	"sync"
)

// MemoryStore keeps documents in process memory. It backs the "memory"
// backend and the tests of everything built on DocumentStore.
type MemoryStore struct {
	mu        sync.Mutex
	docs      map[string][]byte
	failWrite error
	writes    int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

func (m *MemoryStore) Read(_ context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[name]
	if !ok {
		return emptyCollection, nil
	}
	return append([]byte(nil), doc...), nil
}

func (m *MemoryStore) Write(_ context.Context, name string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite != nil {
		return m.failWrite
	}
	m.docs[name] = append([]byte(nil), body...)
	m.writes++
	return nil
}

// FailWrites makes every following Write return err; nil restores writes.
func (m *MemoryStore) FailWrites(err error) {
	m.mu.Lock()
	m.failWrite = err
	m.mu.Unlock()
}

// Writes counts successful writes.
func (m *MemoryStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
