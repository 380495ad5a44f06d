package oauthstate

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	state     State
	expiresAt time.Time
}

// MemoryStore keeps states in process. Only suitable for a single replica.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memEntry), now: time.Now}
}

func (m *MemoryStore) Save(_ context.Context, key string, st State, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, k)
		}
	}

	m.entries[key] = memEntry{state: st, expiresAt: now.Add(ttl)}
	return nil
}

func (m *MemoryStore) Take(_ context.Context, key string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return State{}, ErrNotFound
	}
	delete(m.entries, key)

	if !m.now().Before(e.expiresAt) {
		return State{}, ErrNotFound
	}
	return e.state, nil
}
