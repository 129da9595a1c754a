package rag

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCacheMetrics struct {
	hits, misses atomic.Int32
}

func (m *fakeCacheMetrics) RecordCacheHit(context.Context, string)  { m.hits.Add(1) }
func (m *fakeCacheMetrics) RecordCacheMiss(context.Context, string) { m.misses.Add(1) }

func TestCachedEmbedder_MissThenHit(t *testing.T) {
	var loads atomic.Int32
	inner := EmbedderFunc(func(_ context.Context, text string) ([]float32, error) {
		loads.Add(1)
		return []float32{float32(len(text))}, nil
	})
	metrics := &fakeCacheMetrics{}
	c, err := NewCachedEmbedder(inner, 8, metrics)
	require.NoError(t, err)

	v1, err := c.Embed(context.Background(), "home loan")
	require.NoError(t, err)
	v2, err := c.Embed(context.Background(), "  home loan ")
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
	assert.Equal(t, int32(1), loads.Load())
	assert.Equal(t, int32(1), metrics.hits.Load())
	assert.Equal(t, int32(1), metrics.misses.Load())
	assert.Equal(t, 1, c.Len())
}

func TestCachedEmbedder_ErrorsAreNotCached(t *testing.T) {
	var loads atomic.Int32
	inner := EmbedderFunc(func(context.Context, string) ([]float32, error) {
		if loads.Add(1) == 1 {
			return nil, errors.New("rate limited")
		}
		return []float32{1}, nil
	})
	c, err := NewCachedEmbedder(inner, 8, nil)
	require.NoError(t, err)

	_, err = c.Embed(context.Background(), "q")
	require.Error(t, err)

	v, err := c.Embed(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, []float32{1}, v)
}

func TestCachedEmbedder_CoalescesConcurrentMisses(t *testing.T) {
	var loads atomic.Int32
	release := make(chan struct{})
	inner := EmbedderFunc(func(context.Context, string) ([]float32, error) {
		loads.Add(1)
		<-release
		return []float32{1, 2}, nil
	})
	c, err := NewCachedEmbedder(inner, 8, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.Embed(context.Background(), "same query")
			assert.NoError(t, err)
			assert.Equal(t, []float32{1, 2}, v)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), loads.Load())
}

func TestCachedEmbedder_EvictsOldest(t *testing.T) {
	var loads atomic.Int32
	inner := EmbedderFunc(func(context.Context, string) ([]float32, error) {
		loads.Add(1)
		return []float32{1}, nil
	})
	c, err := NewCachedEmbedder(inner, 1, nil)
	require.NoError(t, err)

	for _, q := range []string{"a", "b", "a"} {
		_, err := c.Embed(context.Background(), q)
		require.NoError(t, err)
	}

	assert.Equal(t, int32(3), loads.Load())
}

func TestNewCachedEmbedder_InvalidSize(t *testing.T) {
	_, err := NewCachedEmbedder(EmbedderFunc(nil), 0, nil)

	assert.Error(t, err)
}
