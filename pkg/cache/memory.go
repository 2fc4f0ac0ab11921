package cache

import (
	"context"
	"slices"
	"sync"
	"time"
)

type entry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// Memory is an in-process Cache holding key -> (value, expiresAt).
type Memory struct {
	mu         sync.Mutex
	entries    map[string]entry
	now        func() time.Time
	maxEntries int
}

// MemoryOption configures a Memory cache.
type MemoryOption func(*Memory)

// WithClock overrides the time source.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		m.now = now
	}
}

// WithMaxEntries bounds the number of stored entries; the entry closest to
// expiry is evicted first.
func WithMaxEntries(limit int) MemoryOption {
	return func(m *Memory) {
		m.maxEntries = limit
	}
}

func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		entries: make(map[string]entry),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}

	if m.expired(e) {
		delete(m.entries, key)

		return nil, false, nil
	}

	return slices.Clone(e.value), true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := entry{value: slices.Clone(value)}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}

	m.entries[key] = e

	if m.maxEntries > 0 && len(m.entries) > m.maxEntries {
		m.evict()
	}

	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.entries)
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]entry)

	return nil
}

func (m *Memory) expired(e entry) bool {
	return !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt)
}

// evict drops expired entries, then the soonest-expiring ones until within bounds.
func (m *Memory) evict() {
	for key, e := range m.entries {
		if m.expired(e) {
			delete(m.entries, key)
		}
	}

	for len(m.entries) > m.maxEntries {
		delete(m.entries, m.soonestExpiring())
	}
}

// soonestExpiring picks the entry expiring first; entries without expiry go last
// and ties break on key order.
func (m *Memory) soonestExpiring() string {
	victim := ""

	var victimEntry entry

	for key, e := range m.entries {
		if victim == "" || expiresBefore(e, victimEntry) || (e.expiresAt.Equal(victimEntry.expiresAt) && key < victim) {
			victim = key
			victimEntry = e
		}
	}

	return victim
}

func expiresBefore(a, b entry) bool {
	switch {
	case a.expiresAt.IsZero():
		return false
	case b.expiresAt.IsZero():
		return true
	default:
		return a.expiresAt.Before(b.expiresAt)
	}
}
