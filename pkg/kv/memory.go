package kv

import (
	"context"
	"slices"
	"sync"
)

// Memory is an in-process Store for tests and single-node deployments.
type Memory struct {
	mu    sync.RWMutex
	items map[string]memoryEntry
}

type memoryEntry struct {
	data    []byte
	version int64
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]memoryEntry)}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.items[key]
	if !ok {
		return nil, 0, ErrNotFound
	}
	return slices.Clone(entry.data), entry.version, nil
}

func (m *Memory) Put(ctx context.Context, key string, value []byte, version int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := int64(0)
	if entry, ok := m.items[key]; ok {
		current = entry.version
	}
	if current != version {
		return ErrVersionMismatch
	}
	m.items[key] = memoryEntry{data: slices.Clone(value), version: version + 1}
	return nil
}

func (m *Memory) Close() error { return nil }
