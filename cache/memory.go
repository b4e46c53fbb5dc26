package cache

import (
	"context"
	"sync"
	"time"

	"github.com/letmevibethatforyou/discussx"
)

type memoryEntry struct {
	records   []discussx.Record
	expiresAt time.Time
}

// Memory is a process-local Store.
// This type is safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory creates an empty in-process store.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, key string) ([]discussx.Record, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[key]
	if !ok || !m.now().Before(e.expiresAt) {
		return nil, false, nil
	}
	return clone(e.records), true, nil
}

// Set implements Store.
func (m *Memory) Set(_ context.Context, key string, records []discussx.Record, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry{
		records:   clone(records),
		expiresAt: m.now().Add(ttl),
	}
	return nil
}
