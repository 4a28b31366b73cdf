package idempotency

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value   string
	expires time.Time
}

// Memory keeps keys in process memory. Used when no Redis is configured.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

func (m *Memory) Claim(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.lookup(key); ok {
		if e.value == Pending {
			return "", false, ErrInFlight
		}
		return e.value, false, nil
	}
	m.entries[key] = memoryEntry{value: Pending, expires: m.now().Add(m.ttl)}
	return "", true, nil
}

func (m *Memory) Complete(_ context.Context, key, bookingID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry{value: bookingID, expires: m.now().Add(m.ttl)}
	return nil
}

func (m *Memory) Abandon(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.lookup(key); ok && e.value == Pending {
		delete(m.entries, key)
	}
	return nil
}

func (m *Memory) lookup(key string) (memoryEntry, bool) {
	e, ok := m.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if m.ttl > 0 && !m.now().Before(e.expires) {
		delete(m.entries, key)
		return memoryEntry{}, false
	}
	return e, true
}
