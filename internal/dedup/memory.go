// Package dedup holds the in-process duplicate-suppression store.
package dedup

import (
	"context"
	"sync"
	"time"

	repo "github.com/ilindan-dev/alertgate/internal/domain/repository"
)

// Ensure Memory implements the interface
var _ repo.DedupStore = (*Memory)(nil)

// Memory is a mutex-guarded fingerprint store suitable for one-shot CLI
// runs and single-process daemons. Expired entries are purged
// opportunistically on every call, bounding memory to the active window.
type Memory struct {
	mu      sync.Mutex
	window  time.Duration
	entries map[string]time.Time
}

// NewMemory creates a store with the given suppression window.
func NewMemory(window time.Duration) *Memory {
	return &Memory{
		window:  window,
		entries: make(map[string]time.Time),
	}
}

// CheckAndRecord implements repository.DedupStore. The check and the
// record happen under one lock, so concurrent callers cannot both pass.
func (m *Memory) CheckAndRecord(_ context.Context, fingerprint string, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.purge(now)

	if last, ok := m.entries[fingerprint]; ok && now.Sub(last) < m.window {
		return false, nil
	}
	m.entries[fingerprint] = now
	return true, nil
}

// Record implements repository.DedupStore.
func (m *Memory) Record(_ context.Context, fingerprint string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.purge(now)
	m.entries[fingerprint] = now
	return nil
}

// purge drops entries older than the window. Amortized cleanup, not a
// precise TTL. Caller must hold the lock.
func (m *Memory) purge(now time.Time) {
	for fp, last := range m.entries {
		if now.Sub(last) >= m.window {
			delete(m.entries, fp)
		}
	}
}

// Len reports the number of live entries. Used by tests.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
