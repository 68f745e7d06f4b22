package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCounter is a process-local Counter. Expired entries are dropped
// lazily on access; the key space here (client+endpoint+window) is small
// enough that a sweeper is not worth the moving parts.
type MemoryCounter struct {
	mu      sync.Mutex
	entries map[string]*memEntry
	now     func() time.Time
}

type memEntry struct {
	count     int64
	expiresAt time.Time
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{entries: make(map[string]*memEntry), now: time.Now}
}

func (c *MemoryCounter) Get(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return 0, nil
	}
	return e.count, nil
}

func (c *MemoryCounter) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	e, ok := c.entries[key]
	if !ok || now.After(e.expiresAt) {
		c.entries[key] = &memEntry{count: 1, expiresAt: now.Add(ttl)}
		return 1, nil
	}
	e.count++
	return e.count, nil
}
