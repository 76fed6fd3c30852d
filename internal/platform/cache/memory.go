package cache

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryBackend keeps values in process memory. A positive capacity bounds
// the total size of keys plus values, mimicking browser storage quotas.
type MemoryBackend struct {
	mu       sync.RWMutex
	entries  map[string][]byte
	used     int64
	capacity int64
}

func NewMemoryBackend(capacity int64) *MemoryBackend {
	return &MemoryBackend{
		entries:  make(map[string][]byte),
		capacity: capacity,
	}
}

func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, nil
	}

	m.mu.RLock()
	value, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

func (m *MemoryBackend) Put(_ context.Context, key string, value []byte) error {
	if key == "" {
		return nil
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	m.mu.Lock()
	defer m.mu.Unlock()

	delta := entrySize(key, stored)
	if old, ok := m.entries[key]; ok {
		delta -= entrySize(key, old)
	}
	if m.capacity > 0 && m.used+delta > m.capacity {
		return ErrQuotaExceeded
	}

	m.entries[key] = stored
	m.used += delta
	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	if old, ok := m.entries[key]; ok {
		m.used -= entrySize(key, old)
		delete(m.entries, key)
	}
	m.mu.Unlock()
	return nil
}

func (m *MemoryBackend) Scan(ctx context.Context, prefix string, fn func(key string, value []byte) error) error {
	m.mu.RLock()
	keys := make([]string, 0, len(m.entries))
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	m.mu.RUnlock()
	sort.Strings(keys)

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		value, ok, _ := m.Get(ctx, key)
		if !ok {
			continue
		}
		if err := fn(key, value); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemoryBackend) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	for key, value := range m.entries {
		if strings.HasPrefix(key, prefix) {
			m.used -= entrySize(key, value)
			delete(m.entries, key)
		}
	}
	m.mu.Unlock()
	return nil
}

func (m *MemoryBackend) Close() error {
	return nil
}

// Used reports the bytes currently held.
func (m *MemoryBackend) Used() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.used
}

func entrySize(key string, value []byte) int64 {
	return int64(len(key) + len(value))
}
