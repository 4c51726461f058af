package storage

import (
	"time"

	"github.com/maypok86/otter/v2"
)

// Cache is a bounded in-memory map whose entries expire ttl after their last access.
type Cache[T any] struct {
	outer *otter.Cache[string, T]
	ttl   time.Duration
}

func NewCache[T any](capacity int, ttl time.Duration) *Cache[T] {
	return &Cache[T]{
		outer: otter.Must(&otter.Options[string, T]{
			MaximumSize:      capacity,
			ExpiryCalculator: otter.ExpiryAccessing[string, T](ttl),
		}),
		ttl: ttl,
	}
}

func (c *Cache[T]) Set(key string, val T) {
	c.outer.Set(key, val)
}

func (c *Cache[T]) Get(key string) (T, bool) {
	return c.outer.GetIfPresent(key)
}

// GetOrSet returns the cached value, storing the one built by create when the key is missing.
func (c *Cache[T]) GetOrSet(key string, create func() T) T {
	if v, ok := c.outer.GetIfPresent(key); ok {
		return v
	}
	v, _ := c.outer.SetIfAbsent(key, create())
	return v
}

func (c *Cache[T]) ClearKey(key string) {
	c.outer.Invalidate(key)
}

func (c *Cache[T]) ClearAll() {
	c.outer.InvalidateAll()
}

func (c *Cache[T]) Len() int {
	return c.outer.EstimatedSize()
}

func (c *Cache[T]) TTL() time.Duration {
	return c.ttl
}
