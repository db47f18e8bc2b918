package cache

import (
	"context"
	"sync"
	"time"

	"github.com/emrgen/reader/internal/compress"
	"github.com/emrgen/reader/internal/view"
)

var _ ViewCache = (*MemoryViewCache)(nil)

// MemoryViewCache keeps the latest encoded view of every article in process.
type MemoryViewCache struct {
	mu      sync.Mutex
	codec   compress.Compress
	ttl     time.Duration
	entries map[string]memoryEntry
}

type memoryEntry struct {
	data    []byte
	expires time.Time
}

func NewMemory(codec compress.Compress, ttl time.Duration) *MemoryViewCache {
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &MemoryViewCache{
		codec:   codec,
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
	}
}

func (m *MemoryViewCache) Get(_ context.Context, articleID string, revision uint64) (*view.Article, error) {
	m.mu.Lock()
	e, ok := m.entries[articleID]
	if ok && time.Now().After(e.expires) {
		delete(m.entries, articleID)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		return nil, nil
	}

	cached, err := decode(m.codec, e.data)
	if err != nil {
		return nil, err
	}
	if cached.Revision != revision {
		return nil, nil
	}

	return cached.View, nil
}

func (m *MemoryViewCache) Set(_ context.Context, articleID string, revision uint64, v *view.Article) error {
	data, err := encode(m.codec, revision, v)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[articleID] = memoryEntry{data: data, expires: time.Now().Add(m.ttl)}

	return nil
}

func (m *MemoryViewCache) Delete(_ context.Context, articleID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, articleID)

	return nil
}
