package indexcache

import (
	"context"
	"sync"
)

// MemoryCache is an in-process cache. Sessions of one process share verse
// embeddings through it, but nothing survives a restart.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string][][]float32
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string][][]float32)}
}

// Load returns a copy of the stored vectors, or (nil, nil) on a miss.
func (c *MemoryCache) Load(ctx context.Context, key string) ([][]float32, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stored, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	return copyVectors(stored), nil
}

// Save stores a copy of vectors under key.
func (c *MemoryCache) Save(ctx context.Context, key string, vectors [][]float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = copyVectors(vectors)
	return nil
}

// Len returns the number of cached indexes.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func copyVectors(in [][]float32) [][]float32 {
	out := make([][]float32, len(in))
	for i, v := range in {
		out[i] = append([]float32(nil), v...)
	}
	return out
}
