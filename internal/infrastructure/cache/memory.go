package cache

import (
	"context"
	"sync"
	"time"

	"visual-search/internal/domain/port"
)

type memoryEntry struct {
	ids      []string
	storedAt time.Time
}

// MemoryCache: in-memory кэш похожих товаров с ограничением по времени жизни.
type MemoryCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryCache создаёт кэш. при ttl <= 0 записи не устаревают.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (c *MemoryCache) Get(ctx context.Context, itemID string) ([]string, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[itemID]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if c.ttl > 0 && c.now().Sub(e.storedAt) > c.ttl {
		c.mu.Lock()
		delete(c.entries, itemID)
		c.mu.Unlock()
		return nil, false, nil
	}
	return append([]string(nil), e.ids...), true, nil
}

func (c *MemoryCache) Put(ctx context.Context, itemID string, ids []string) error {
	c.mu.Lock()
	c.entries[itemID] = memoryEntry{ids: append([]string(nil), ids...), storedAt: c.now()}
	c.mu.Unlock()
	return nil
}

var _ port.SimilarityCache = (*MemoryCache)(nil)
