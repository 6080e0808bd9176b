package metrics

import (
	"context"
	"strings"
	"sync"
)

// Memory keeps counters in process memory. Safe for concurrent use.
type Memory struct {
	mu       sync.Mutex
	counters map[string]int64
}

// NewMemory creates an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{counters: make(map[string]int64)}
}

// Increment implements Sink.
func (m *Memory) Increment(_ context.Context, name string, tags ...Tag) {
	k := key(name, tags)
	m.mu.Lock()
	m.counters[k]++
	m.mu.Unlock()
}

// Count returns the value of one counter for an exact tag set.
func (m *Memory) Count(name string, tags ...Tag) int64 {
	k := key(name, tags)
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[k]
}

// Total sums a counter across all tag sets.
func (m *Memory) Total(name string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	var total int64
	for k, v := range m.counters {
		if k == name || strings.HasPrefix(k, name+"{") {
			total += v
		}
	}
	return total
}

// Snapshot returns a copy of every counter keyed by name and tags.
func (m *Memory) Snapshot() map[string]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]int64, len(m.counters))
	for k, v := range m.counters {
		out[k] = v
	}
	return out
}
