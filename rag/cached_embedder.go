package rag

import (
	"context"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"loan-advisor/observability"
)

const queryEmbeddingCacheName = "query_embedding"

// CachedEmbedder memoizes embeddings in an LRU and coalesces concurrent
// misses for the same text into one upstream call.
type CachedEmbedder struct {
	inner   Embedder
	cache   *lru.Cache[string, []float32]
	group   singleflight.Group
	metrics observability.CacheMetrics
}

// NewCachedEmbedder wraps inner with an LRU of size entries. metrics may be nil.
func NewCachedEmbedder(inner Embedder, size int, metrics observability.CacheMetrics) (*CachedEmbedder, error) {
	cache, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, fmt.Errorf("create embedding cache: %w", err)
	}
	return &CachedEmbedder{inner: inner, cache: cache, metrics: metrics}, nil
}

// Embed returns the cached vector for text or loads it. Failed loads are not cached.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := strings.TrimSpace(text)
	if vec, ok := c.cache.Get(key); ok {
		if c.metrics != nil {
			c.metrics.RecordCacheHit(ctx, queryEmbeddingCacheName)
		}
		return vec, nil
	}
	if c.metrics != nil {
		c.metrics.RecordCacheMiss(ctx, queryEmbeddingCacheName)
	}

	val, err, _ := c.group.Do(key, func() (any, error) {
		vec, loadErr := c.inner.Embed(ctx, key)
		if loadErr != nil {
			return nil, loadErr
		}
		c.cache.Add(key, vec)
		return vec, nil
	})
	if err != nil {
		return nil, err
	}
	return val.([]float32), nil
}

// Len returns the number of cached embeddings.
func (c *CachedEmbedder) Len() int {
	return c.cache.Len()
}
