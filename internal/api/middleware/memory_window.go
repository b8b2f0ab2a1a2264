package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const memorySweepInterval = time.Minute

type windowEntry struct {
	count   int64
	resetAt time.Time
}

// MemoryWindow is a process-local WindowCounter used when Redis is not
// reachable. Keys follow the Redis layout: <prefix>:<key>:<window_index>.
type MemoryWindow struct {
	mu        sync.Mutex
	prefix    string
	entries   map[string]*windowEntry
	nextSweep time.Time
	now       func() time.Time
}

// NewMemoryWindow creates an empty in-memory fixed window counter.
func NewMemoryWindow(prefix string) *MemoryWindow {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &MemoryWindow{prefix: prefix, entries: map[string]*windowEntry{}, now: time.Now}
}

// Hit records one request for key in the current window and returns the
// running count plus the time left until the window resets.
func (m *MemoryWindow) Hit(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if window <= 0 {
		return 0, 0, fmt.Errorf("ratelimit: window must be positive")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	index := now.UnixNano() / int64(window)
	resetAt := time.Unix(0, (index+1)*int64(window))
	k := fmt.Sprintf("%s:%s:%d", m.prefix, key, index)

	m.sweep(now)

	e, ok := m.entries[k]
	if !ok {
		e = &windowEntry{resetAt: resetAt}
		m.entries[k] = e
	}
	e.count++
	return e.count, resetAt.Sub(now), nil
}

// Len reports how many windows are currently tracked.
func (m *MemoryWindow) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// sweep drops closed windows at most once per memorySweepInterval.
func (m *MemoryWindow) sweep(now time.Time) {
	if now.Before(m.nextSweep) {
		return
	}
	for k, e := range m.entries {
		if !now.Before(e.resetAt) {
			delete(m.entries, k)
		}
	}
	m.nextSweep = now.Add(memorySweepInterval)
}
