package cache

import (
	"context"
	"sync"
)

// MemoryStore is an in-process fallback used when no Redis URL is
// configured. Entries never expire.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[int]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[int]string)}
}

func (m *MemoryStore) GetImageURL(_ context.Context, mediaID int) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[mediaID], nil
}

func (m *MemoryStore) SetImageURL(_ context.Context, mediaID int, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[mediaID] = url
	return nil
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[int]string)
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
