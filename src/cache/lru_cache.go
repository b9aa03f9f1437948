package cache

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// Entry is a cached value with its expiration instant.
type Entry struct {
	Value     any
	ExpiresAt time.Time
}

// LRU is a thread-safe fixed-capacity cache with per-entry TTL.
// Expired entries are dropped lazily on read; capacity overflow evicts
// the least recently used entry.
type LRU struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	items    map[string]*list.Element
	order    *list.List
}

type node struct {
	key   string
	entry Entry
}

// NewLRU builds a cache holding at most capacity entries, each valid for ttl.
func NewLRU(capacity int, ttl time.Duration) *LRU {
	if capacity <= 0 {
		capacity = 128
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &LRU{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

// Get returns the live value for key, if any.
func (c *LRU) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}
	n := elem.Value.(*node)
	if time.Now().After(n.entry.ExpiresAt) {
		c.order.Remove(elem)
		delete(c.items, key)
		return nil, false
	}
	c.order.MoveToFront(elem)
	return n.entry.Value, true
}

// Set stores value under key, refreshing its TTL.
func (c *LRU) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expires := time.Now().Add(c.ttl)
	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*node).entry = Entry{Value: value, ExpiresAt: expires}
		return
	}

	elem := c.order.PushFront(&node{key: key, entry: Entry{Value: value, ExpiresAt: expires}})
	c.items[key] = elem
	c.evictOverflow()
}

func (c *LRU) evictOverflow() {
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			return
		}
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*node).key)
	}
}

// Len reports the number of entries currently held, expired or not.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear drops every entry.
func (c *LRU) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element, c.capacity)
	c.order.Init()
}

// Dump snapshots the cache for persistence.
func (c *LRU) Dump() map[string]Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	dump := make(map[string]Entry, len(c.items))
	for k, elem := range c.items {
		dump[k] = elem.Value.(*node).entry
	}
	return dump
}

// Restore loads a previously dumped snapshot, skipping entries that
// expired in the meantime and enforcing capacity.
func (c *LRU) Restore(dump map[string]Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order.Init()
	c.items = make(map[string]*list.Element, c.capacity)
	now := time.Now()
	for k, e := range dump {
		if now.After(e.ExpiresAt) {
			continue
		}
		elem := c.order.PushFront(&node{key: k, entry: e})
		c.items[k] = elem
	}
	c.evictOverflow()
}

// HashKey derives a stable cache key from an arbitrary prompt.
func HashKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
