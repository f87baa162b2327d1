package cache

import (
	"container/list"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/nindex/internal/resource"
)

// Key identifies a block of a blob.
type Key struct {
	Path  string
	Block int64
}

// LRU is a byte-bounded least-recently-used block cache.
type LRU struct {
	mu       sync.Mutex
	capacity int64
	size     int64
	items    map[Key]*list.Element
	order    *list.List
	rc       *resource.Controller

	hits   atomic.Int64
	misses atomic.Int64
}

type entry struct {
	key   Key
	value []byte
}

// NewLRU creates a cache holding at most capacity bytes. If rc is non-nil,
// cached bytes are also reserved against its memory budget.
func NewLRU(capacity int64, rc *resource.Controller) *LRU {
	return &LRU{
		capacity: capacity,
		items:    make(map[Key]*list.Element),
		order:    list.New(),
		rc:       rc,
	}
}

// Get returns the cached block for key.
func (c *LRU) Get(key Key) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		c.hits.Add(1)
		c.order.MoveToFront(e)
		return e.Value.(*entry).value, true
	}
	c.misses.Add(1)
	return nil, false
}

// Set caches b under key. Blocks larger than the capacity, or that the
// memory budget refuses, are dropped.
func (c *LRU) Set(key Key, b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := int64(len(b))
	if n > c.capacity {
		return
	}
	if e, ok := c.items[key]; ok {
		c.remove(e)
	}

	for c.size+n > c.capacity {
		e := c.order.Back()
		if e == nil {
			break
		}
		c.remove(e)
	}
	if !c.rc.TryAcquireMemory(n) {
		return
	}

	c.items[key] = c.order.PushFront(&entry{key: key, value: b})
	c.size += n
}

// Invalidate drops every block of path.
func (c *LRU) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.items {
		if key.Path == path {
			c.remove(e)
		}
	}
}

// Purge drops every block.
func (c *LRU) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for c.order.Len() > 0 {
		c.remove(c.order.Back())
	}
}

// Size returns the cached bytes.
func (c *LRU) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Stats returns hit and miss counts.
func (c *LRU) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *LRU) remove(e *list.Element) {
	c.order.Remove(e)
	ent := e.Value.(*entry)
	delete(c.items, ent.key)
	n := int64(len(ent.value))
	c.size -= n
	c.rc.ReleaseMemory(n)
}
