package cache

import (
	"sync"
	"time"
)

// Cache is a generic key-value cache.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	Size() int
}

// TTLCache is a mutex-guarded cache whose entries expire after a fixed
// duration. Expired entries are dropped lazily on access and swept
// whenever the cache grows past maxSize.
type TTLCache[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	items   map[string]entry[T]
}

type entry[T any] struct {
	data      T
	expiresAt time.Time
}

// NewTTLCache creates a cache holding at most maxSize live entries.
func NewTTLCache[T any](maxSize int, ttl time.Duration) *TTLCache[T] {
	return &TTLCache[T]{
		ttl:     ttl,
		maxSize: maxSize,
		items:   make(map[string]entry[T]),
	}
}

func (c *TTLCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	e, ok := c.items[key]
	if !ok {
		return zero, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.items, key)
		return zero, false
	}
	return e.data, true
}

func (c *TTLCache[T]) Set(key string, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.items) >= c.maxSize {
		c.sweepLocked()
	}
	// Still full after sweeping: evict the entry closest to expiry.
	if len(c.items) >= c.maxSize {
		var (
			oldestKey string
			oldestAt  time.Time
			first     = true
		)
		for k, e := range c.items {
			if first || e.expiresAt.Before(oldestAt) {
				oldestKey, oldestAt, first = k, e.expiresAt, false
			}
		}
		delete(c.items, oldestKey)
	}
	c.items[key] = entry[T]{data: data, expiresAt: time.Now().Add(c.ttl)}
}

func (c *TTLCache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

func (c *TTLCache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *TTLCache[T]) sweepLocked() {
	now := time.Now()
	for k, e := range c.items {
		if now.After(e.expiresAt) {
			delete(c.items, k)
		}
	}
}
