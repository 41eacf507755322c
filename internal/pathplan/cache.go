package pathplan

import (
	"context"

	arc "github.com/hashicorp/golang-lru/arc/v2"
)

// DefaultCacheSize is the number of path results CachedOracle keeps.
const DefaultCacheSize = 256

// CachedOracle memoizes successful oracle answers by request key.
// Errors are not cached. Cached results are shared and must not be
// modified by callers.
type CachedOracle struct {
	inner Oracle
	cache *arc.ARCCache[string, *Result]
}

// NewCachedOracle wraps o with an ARC cache holding size entries.
func NewCachedOracle(o Oracle, size int) (*CachedOracle, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := arc.NewARC[string, *Result](size)
	if err != nil {
		return nil, err
	}
	return &CachedOracle{inner: o, cache: c}, nil
}

// CompletePath answers from the cache or asks the wrapped oracle.
func (c *CachedOracle) CompletePath(ctx context.Context, req Request) (*Result, error) {
	key := req.Key()
	if res, ok := c.cache.Get(key); ok {
		return res, nil
	}
	res, err := c.inner.CompletePath(ctx, req)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, res)
	return res, nil
}

// Len returns the number of cached results.
func (c *CachedOracle) Len() int {
	return c.cache.Len()
}
