package cache

import (
	"context"
	"sync"
	"time"
)

// symbolEntry represents a cached symbol bitmap with expiration
type symbolEntry struct {
	data      []byte
	expiresAt time.Time
}

// InMemorySymbolCache implements SymbolCache using an in-memory map
// This is suitable for single-instance deployments and testing
type InMemorySymbolCache struct {
	mu        sync.RWMutex
	entries   map[string]symbolEntry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemorySymbolCache creates a new in-memory symbol cache
// It starts a background goroutine to clean up expired entries
func NewInMemorySymbolCache() *InMemorySymbolCache {
	cache := &InMemorySymbolCache{
		entries:  make(map[string]symbolEntry),
		stopChan: make(chan struct{}),
	}

	cache.wg.Add(1)
	go cache.cleanupLoop()

	return cache
}

// Get returns the cached PNG for the key, or found=false on a miss
func (c *InMemorySymbolCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[key]
	if !exists {
		return nil, false, nil
	}
	if time.Now().After(e.expiresAt) {
		return nil, false, nil // Expired, treat as a miss
	}

	// Return a copy so callers cannot mutate the cached bytes
	out := make([]byte, len(e.data))
	copy(out, e.data)
	return out, true, nil
}

// Set stores a PNG with a TTL
func (c *InMemorySymbolCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	stored := make([]byte, len(data))
	copy(stored, data)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = symbolEntry{
		data:      stored,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Close stops the cleanup goroutine and releases resources
// Safe to call multiple times
func (c *InMemorySymbolCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired entries
func (c *InMemorySymbolCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

// cleanup removes expired entries from the cache
func (c *InMemorySymbolCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// Size returns the number of entries in the cache (for testing/monitoring)
func (c *InMemorySymbolCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Ensure InMemorySymbolCache implements SymbolCache
var _ SymbolCache = (*InMemorySymbolCache)(nil)
