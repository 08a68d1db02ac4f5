package sentiment

import (
	"context"
	"crypto/sha256"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of scored texts kept in memory.
const DefaultCacheSize = 1024

// Cached memoizes a Scorer. Scoring is deterministic, so repeated texts
// (re-ingested media, imports) skip the analysis.
type Cached struct {
	inner Scorer
	cache *lru.Cache[[sha256.Size]byte, float64]
}

// NewCached wraps inner with an LRU cache of size entries.
func NewCached(inner Scorer, size int) *Cached {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, _ := lru.New[[sha256.Size]byte, float64](size)
	return &Cached{inner: inner, cache: cache}
}

// Score returns the cached score for text or computes and stores it.
// Errors are not cached.
func (c *Cached) Score(ctx context.Context, text string) (float64, error) {
	key := sha256.Sum256([]byte(text))
	if s, ok := c.cache.Get(key); ok {
		return s, nil
	}
	s, err := c.inner.Score(ctx, text)
	if err != nil {
		return 0, err
	}
	c.cache.Add(key, s)
	return s, nil
}

// Len returns the number of cached scores.
func (c *Cached) Len() int {
	return c.cache.Len()
}
