package cache

import (
	"container/list"
	"sync"
	"sync/atomic"

	"github.com/growbot/faqrag/resource"
)

// SizeFunc reports the cost of a value in bytes.
type SizeFunc[V any] func(V) int64

// LRU implements a simple size-bounded LRU cache.
type LRU[K comparable, V any] struct {
	mu        sync.Mutex
	capacity  int64
	size      int64
	sizeOf    SizeFunc[V]
	items     map[K]*list.Element
	evictList *list.List
	rc        *resource.Controller

	hits   atomic.Int64
	misses atomic.Int64
}

type entry[K comparable, V any] struct {
	key   K
	value V
	size  int64
}

// NewLRU creates a new LRU cache with the given capacity in bytes.
// If rc is provided, it will be used to track memory usage.
func NewLRU[K comparable, V any](capacity int64, sizeOf SizeFunc[V], rc *resource.Controller) *LRU[K, V] {
	return &LRU[K, V]{
		capacity:  capacity,
		sizeOf:    sizeOf,
		items:     make(map[K]*list.Element),
		evictList: list.New(),
		rc:        rc,
	}
}

// Get returns a cached value.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.hits.Add(1)
		c.evictList.MoveToFront(ent)
		return ent.Value.(*entry[K, V]).value, true
	}
	c.misses.Add(1)
	var zero V
	return zero, false
}

// Set caches a value.
func (c *LRU[K, V]) Set(key K, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	itemSize := c.sizeOf(v)

	if ent, ok := c.items[key]; ok {
		e := ent.Value.(*entry[K, V])
		c.evictList.MoveToFront(ent)
		if c.rc != nil && itemSize > e.size {
			// If the controller denies the growth, keep the old value.
			if c.rc.AcquireMemory(itemSize-e.size) != nil {
				return
			}
		}
		if c.rc != nil && itemSize < e.size {
			c.rc.ReleaseMemory(e.size - itemSize)
		}
		c.size += itemSize - e.size
		e.value = v
		e.size = itemSize
		c.evict()
		return
	}

	if itemSize > c.capacity {
		return
	}

	// Evict locally first so released memory can be reacquired below.
	for c.size+itemSize > c.capacity {
		ent := c.evictList.Back()
		if ent == nil {
			break
		}
		c.removeElement(ent)
	}

	if c.rc != nil && c.rc.AcquireMemory(itemSize) != nil {
		return
	}

	element := c.evictList.PushFront(&entry[K, V]{key: key, value: v, size: itemSize})
	c.items[key] = element
	c.size += itemSize
}

// Delete removes a key.
func (c *LRU[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.removeElement(ent)
	}
}

// Purge removes all entries.
func (c *LRU[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for ent := c.evictList.Back(); ent != nil; ent = c.evictList.Back() {
		c.removeElement(ent)
	}
}

func (c *LRU[K, V]) evict() {
	for c.size > c.capacity {
		element := c.evictList.Back()
		if element == nil {
			break
		}
		c.removeElement(element)
	}
}

func (c *LRU[K, V]) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	kv := e.Value.(*entry[K, V])
	delete(c.items, kv.key)
	c.size -= kv.size
	if c.rc != nil {
		c.rc.ReleaseMemory(kv.size)
	}
}

// Stats returns hit and miss counters.
func (c *LRU[K, V]) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Size returns the current size of the cache in bytes.
func (c *LRU[K, V]) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Len returns the number of cached entries.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
