package canon

import (
	"sync/atomic"

	"github.com/2x3systems/go2x3motif/libmotif/graph"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache memoizes canonical labelings keyed by a graph's identity encoding.
//
// A nil *Cache is valid and computes every labeling.  A Cache is safe for concurrent use.
type Cache struct {
	lru    *lru.Cache[string, *Result]
	hits   atomic.Int64
	misses atomic.Int64
}

// NewCache returns a Cache holding up to size labelings.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = 1
	}
	c, err := lru.New[string, *Result](size)
	if err != nil {
		panic(err)
	}
	return &Cache{
		lru: c,
	}
}

// Label returns the canonical labeling of X, computing it only if X's encoding is not already cached.
func (c *Cache) Label(X *graph.Graph) *Result {
	if c == nil {
		return Label(X)
	}
	key := string(X.AppendEncoding(nil, nil))
	if res, ok := c.lru.Get(key); ok {
		c.hits.Add(1)
		return res
	}
	c.misses.Add(1)
	res := Label(X)
	c.lru.Add(key, res)
	return res
}

// Form returns the canonical form of X (see Label).
func (c *Cache) Form(X *graph.Graph) []byte {
	return c.Label(X).Form
}

// Len returns the number of cached labelings.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}

// HitRate returns the fraction of lookups served from the cache.
func (c *Cache) HitRate() float64 {
	if c == nil {
		return 0
	}
	hits, misses := c.hits.Load(), c.misses.Load()
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses)
}
