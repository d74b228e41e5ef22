package compare

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

type pair struct {
	a, b string
}

// Cached memoizes the scores of another comparer in a bounded LRU.
// It is useful when the same value pairs recur across buckets, for example
// with several key definitions over low-cardinality fields.
type Cached struct {
	inner Comparer
	cache *lru.Cache[pair, float64]
}

func NewCached(inner Comparer, size int) (*Cached, error) {
	cache, err := lru.New[pair, float64](size)
	if err != nil {
		return nil, err
	}
	return &Cached{inner: inner, cache: cache}, nil
}

func (c *Cached) Compare(a, b string) float64 {
	key := pair{a: a, b: b}
	if score, ok := c.cache.Get(key); ok {
		return score
	}

	score := c.inner.Compare(a, b)
	c.cache.Add(key, score)
	return score
}

// Len returns the number of memoized pairs.
func (c *Cached) Len() int {
	return c.cache.Len()
}

// Unwrap returns the decorated comparer.
func (c *Cached) Unwrap() Comparer {
	return c.inner
}
