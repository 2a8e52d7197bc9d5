package translation

import "sync"

// Cache stores translations in memory for batch operations
type Cache struct {
	mu      sync.RWMutex
	results map[cacheKey]Result
}

type cacheKey struct {
	provider, from, to, text string
}

// NewCache creates a new translation cache
func NewCache() *Cache {
	return &Cache{results: make(map[cacheKey]Result)}
}

// Add stores a result produced by provider
func (c *Cache) Add(provider string, r Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[cacheKey{provider, r.From, r.To, r.Original}] = r
}

// Get retrieves a cached result
func (c *Cache) Get(provider, text, from, to string) (Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.results[cacheKey{provider, from, to, text}]
	return r, ok
}

// Len returns the number of cached results
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.results)
}
