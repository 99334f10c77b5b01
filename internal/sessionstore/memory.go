package sessionstore

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/google/uuid"

	"expensedesk/internal/domain"
	"expensedesk/internal/port"
)

// Memory is an in-process port.SessionStore. It keeps serialized payloads
// so that loads go through the same decoding as the SQL-backed store.
type Memory struct {
	mu     sync.Mutex
	data   map[string][]byte
	writes int
}

var _ port.SessionStore = (*Memory)(nil)

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Load(ctx context.Context, key string) *domain.Record {
	m.mu.Lock()
	payload, ok := m.data[key]
	m.mu.Unlock()
	if !ok {
		return nil
	}
	return Decode(ctx, key, payload)
}

func (m *Memory) Save(_ context.Context, key string, rec *domain.Record) {
	payload, err := json.Marshal(rec.Portable())
	if err != nil {
		return
	}
	m.mu.Lock()
	m.data[key] = payload
	m.writes++
	m.mu.Unlock()
}

func (m *Memory) Remove(_ context.Context, key string) {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
}

// SetRaw stores payload under key verbatim.
func (m *Memory) SetRaw(key, payload string) {
	m.mu.Lock()
	m.data[key] = []byte(payload)
	m.mu.Unlock()
}

// Has reports whether key holds a value.
func (m *Memory) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

func (m *Memory) Keys(_ context.Context) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

// Writes returns how many Save calls reached the store.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// MemoryFactory hands out one Memory store per user.
type MemoryFactory struct {
	mu     sync.Mutex
	stores map[uuid.UUID]*Memory
}

// NewMemoryFactory returns an empty factory.
func NewMemoryFactory() *MemoryFactory {
	return &MemoryFactory{stores: make(map[uuid.UUID]*Memory)}
}

// For returns the store for userID, creating it on first use.
func (f *MemoryFactory) For(userID uuid.UUID) *Memory {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.stores[userID]
	if !ok {
		m = NewMemory()
		f.stores[userID] = m
	}
	return m
}
