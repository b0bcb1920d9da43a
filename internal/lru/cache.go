package lru

// Cache is a bounded map that evicts its least recently used entry when a
// Put would exceed capacity.
type Cache[K comparable, V any] struct {
	entries  map[K]*cacheEntry[K, V]
	list     *List[K]
	capacity int

	hits      uint64
	misses    uint64
	evictions uint64
}

type cacheEntry[K comparable, V any] struct {
	value V
	node  *Node[K]
}

// Stats contains cache statistics.
type Stats struct {
	Len       int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// New creates a cache holding at most capacity entries.
// A capacity <= 0 disables the cache: Put drops every value.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	return &Cache[K, V]{
		entries:  make(map[K]*cacheEntry[K, V]),
		list:     NewList[K](),
		capacity: capacity,
	}
}

// Get returns the value for key and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	e, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.list.MoveToFront(e.node)
	return e.value, true
}

// Take removes key and returns its value.
func (c *Cache[K, V]) Take(key K) (V, bool) {
	e, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.list.Remove(e.node)
	delete(c.entries, key)
	return e.value, true
}

// Put stores value under key, evicting the oldest entries if needed.
func (c *Cache[K, V]) Put(key K, value V) {
	if c.capacity <= 0 {
		return
	}
	if e, ok := c.entries[key]; ok {
		e.value = value
		c.list.MoveToFront(e.node)
		return
	}
	for c.list.Len() >= c.capacity {
		oldest := c.list.Oldest()
		c.list.Remove(oldest)
		delete(c.entries, oldest.Key)
		c.evictions++
	}
	c.entries[key] = &cacheEntry[K, V]{value: value, node: c.list.PushFront(key)}
}

// Remove deletes key. It reports whether the key was present.
func (c *Cache[K, V]) Remove(key K) bool {
	e, ok := c.entries[key]
	if !ok {
		return false
	}
	c.list.Remove(e.node)
	delete(c.entries, key)
	return true
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	return len(c.entries)
}

// Clear removes all entries. Statistics are kept.
func (c *Cache[K, V]) Clear() {
	c.entries = make(map[K]*cacheEntry[K, V])
	c.list.Clear()
}

// Stats returns current statistics.
func (c *Cache[K, V]) Stats() Stats {
	return Stats{
		Len:       len(c.entries),
		Capacity:  c.capacity,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}
