// Package cache provides the small TTL'd LRU used to memoize derived
// month series. Derivations are pure, so cached entries are always
// interchangeable with a fresh recomputation; the cache is flushed
// wholesale on every ledger mutation.
package cache

import (
	"container/list"
	"sync"
	"time"
)

type entry[V any] struct {
	key     string
	value   V
	expires time.Time
}

// Cache is a fixed-capacity LRU with per-entry TTL. Safe for
// concurrent use.
type Cache[V any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	index    map[string]*list.Element
	order    *list.List // front = most recently used
}

// New creates a cache holding at most capacity entries, each valid for
// ttl after being set.
func New[V any](capacity int, ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		capacity: capacity,
		ttl:      ttl,
		index:    make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Get returns the cached value for key if present and unexpired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	elem, ok := c.index[key]
	if !ok {
		return zero, false
	}
	e := elem.Value.(*entry[V])
	if time.Now().After(e.expires) {
		c.evict(elem)
		return zero, false
	}
	c.order.MoveToFront(elem)
	return e.value, true
}

// Set stores a value, refreshing its TTL. When the cache is full the
// least recently used entry is dropped.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := &entry[V]{key: key, value: value, expires: time.Now().Add(c.ttl)}
	if elem, ok := c.index[key]; ok {
		elem.Value = e
		c.order.MoveToFront(elem)
		return
	}
	c.index[key] = c.order.PushFront(e)
	if c.order.Len() > c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			c.evict(oldest)
		}
	}
}

// Flush drops every entry. Called after any ledger mutation so the
// next read recomputes from the current records.
func (c *Cache[V]) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = make(map[string]*list.Element)
	c.order.Init()
}

// CleanExpired drops expired entries and returns how many were removed.
func (c *Cache[V]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for elem := c.order.Front(); elem != nil; {
		next := elem.Next()
		if now.After(elem.Value.(*entry[V]).expires) {
			c.evict(elem)
			removed++
		}
		elem = next
	}
	return removed
}

// Len returns the number of entries currently held.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.index)
}

func (c *Cache[V]) evict(elem *list.Element) {
	delete(c.index, elem.Value.(*entry[V]).key)
	c.order.Remove(elem)
}
