// Package cache is a bounded map that evicts the entry set or read longest ago.
package cache

import (
	"github.com/pdok/vtiler/mapslicehelp"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// OnEvict is called with every entry that leaves the cache.
type OnEvict[K comparable, V any] func(key K, value V)

// Cache keeps at most its capacity of entries. Set and Get move an entry to
// the newest position, going past capacity drops the oldest.
// It is not safe for concurrent use.
type Cache[K comparable, V any] struct {
	capacity int
	onEvict  OnEvict[K, V]
	entries  *orderedmap.OrderedMap[K, V]
}

// New makes a cache of capacity entries, at least 1. onEvict may be nil.
func New[K comparable, V any](capacity int, onEvict OnEvict[K, V]) *Cache[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache[K, V]{
		capacity: capacity,
		onEvict:  onEvict,
		entries:  orderedmap.New[K, V](),
	}
}

// Set stores value under key, returning whether an entry had to be evicted.
func (c *Cache[K, V]) Set(key K, value V) (evicted bool) {
	if _, present := c.entries.Set(key, value); present {
		_ = c.entries.MoveToBack(key)
		return false
	}
	if c.entries.Len() <= c.capacity {
		return false
	}
	oldest := c.entries.Oldest()
	c.entries.Delete(oldest.Key)
	c.evict(oldest.Key, oldest.Value)
	return true
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	value, ok := c.entries.Get(key)
	if ok {
		_ = c.entries.MoveToBack(key)
	}
	return value, ok
}

// Peek is Get without touching the order.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	return c.entries.Get(key)
}

func (c *Cache[K, V]) Delete(key K) bool {
	value, ok := c.entries.Delete(key)
	if ok {
		c.evict(key, value)
	}
	return ok
}

func (c *Cache[K, V]) Len() int {
	return c.entries.Len()
}

func (c *Cache[K, V]) Capacity() int {
	return c.capacity
}

// Keys lists the keys, oldest first.
func (c *Cache[K, V]) Keys() []K {
	return mapslicehelp.OrderedMapKeys(c.entries)
}

// Clear evicts everything, oldest first.
func (c *Cache[K, V]) Clear() {
	old := c.entries
	c.entries = orderedmap.New[K, V]()
	for p := old.Oldest(); p != nil; p = p.Next() {
		c.evict(p.Key, p.Value)
	}
}

func (c *Cache[K, V]) evict(key K, value V) {
	if c.onEvict != nil {
		c.onEvict(key, value)
	}
}
