package rag

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-advisor/domain"
)

type recordedRetrieval struct {
	outcome string
	chunks  int
}

type fakeRetrievalMetrics struct {
	mu      sync.Mutex
	records []recordedRetrieval
}

func (m *fakeRetrievalMetrics) RecordRetrieval(_ context.Context, outcome string, chunks int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, recordedRetrieval{outcome, chunks})
}

func staticEmbedder(vec []float32) (Embedder, *int) {
	calls := 0
	return EmbedderFunc(func(context.Context, string) ([]float32, error) {
		calls++
		return vec, nil
	}), &calls
}

func chunk(text string, vec ...float32) domain.EmbeddedChunk {
	return domain.EmbeddedChunk{Text: text, Embedding: vec}
}

func testCorpus() Corpus {
	return Corpus{
		chunk("orthogonal", 0, 1),
		chunk("close", 0.9, 0.1),
		chunk("exact", 1, 0),
		chunk("opposite", -1, 0),
		chunk("diagonal", 1, 1),
	}
}

func TestRetrieveContext_EmptyCorpusSkipsEmbedder(t *testing.T) {
	embedder, calls := staticEmbedder([]float32{1, 0})
	metrics := &fakeRetrievalMetrics{}
	r := NewRetriever(embedder, nil, metrics)

	assert.Equal(t, "", r.RetrieveContext(context.Background(), "home loan", nil))
	assert.Equal(t, "", r.RetrieveContext(context.Background(), "home loan", Corpus{}))
	assert.Zero(t, *calls)
	assert.Equal(t, "no_corpus", metrics.records[0].outcome)
}

func TestRetrieveContext_OrdersBestFirst(t *testing.T) {
	embedder, _ := staticEmbedder([]float32{1, 0})
	r := NewRetriever(embedder, nil, nil)

	got := r.RetrieveContext(context.Background(), "q", testCorpus(), WithTopK(3))

	assert.Equal(t, "exact\n\nclose\n\ndiagonal", got)
}

func TestRetrieve_AtMostKAndAboveMinScore(t *testing.T) {
	embedder, _ := staticEmbedder([]float32{1, 0})
	r := NewRetriever(embedder, nil, nil)

	for k := 1; k <= 6; k++ {
		for _, minScore := range []float64{-1, 0, 0.1, 0.7071, 0.99} {
			got := r.Retrieve(context.Background(), "q", testCorpus(), WithTopK(k), WithMinScore(minScore))

			assert.LessOrEqual(t, len(got), k)
			for i, sc := range got {
				assert.Greater(t, sc.Score, minScore)
				if i > 0 {
					assert.GreaterOrEqual(t, got[i-1].Score, sc.Score)
				}
			}
		}
	}
}

func TestRetrieve_TopKAppliesBeforeThreshold(t *testing.T) {
	embedder, _ := staticEmbedder([]float32{1, 0})
	r := NewRetriever(embedder, nil, nil)

	got := r.Retrieve(context.Background(), "q", testCorpus(), WithTopK(2), WithMinScore(0.995))

	require.Len(t, got, 1)
	assert.Equal(t, "exact", got[0].Chunk.Text)
}

func TestRetrieve_DefaultsToFiveAndPointOne(t *testing.T) {
	embedder, _ := staticEmbedder([]float32{1, 0})
	r := NewRetriever(embedder, nil, nil)

	corpus := Corpus{}
	for range 8 {
		corpus = append(corpus, chunk("same", 1, 0))
	}
	corpus = append(corpus, chunk("weak", 0.05, 1))

	assert.Len(t, r.Retrieve(context.Background(), "q", corpus), 5)
	assert.Len(t, r.Retrieve(context.Background(), "q", corpus, WithTopK(0)), 5)
	assert.Len(t, r.Retrieve(context.Background(), "q", corpus, WithTopK(-3)), 5)
	assert.Empty(t, r.Retrieve(context.Background(), "q", Corpus{chunk("weak", 0.05, 1)}))
}

func TestRetrieve_TiesKeepCorpusOrder(t *testing.T) {
	embedder, _ := staticEmbedder([]float32{1, 0})
	r := NewRetriever(embedder, nil, nil)
	corpus := Corpus{chunk("first", 2, 0), chunk("second", 1, 0), chunk("third", 3, 0)}

	got := r.RetrieveContext(context.Background(), "q", corpus, WithTopK(2))

	assert.Equal(t, "first\n\nsecond", got)
}

func TestRetrieve_DimensionMismatchScoresZero(t *testing.T) {
	embedder, _ := staticEmbedder([]float32{1, 0})
	r := NewRetriever(embedder, nil, nil)
	corpus := Corpus{chunk("three dims", 1, 0, 0), chunk("match", 1, 0)}

	got := r.Retrieve(context.Background(), "q", corpus, WithMinScore(-0.5))

	require.Len(t, got, 2)
	assert.Equal(t, "match", got[0].Chunk.Text)
	assert.Zero(t, got[1].Score)
}

func TestRetrieve_EmbedderFailureDegrades(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	metrics := &fakeRetrievalMetrics{}
	failing := EmbedderFunc(func(context.Context, string) ([]float32, error) {
		return nil, errors.New("quota exceeded")
	})
	r := NewRetriever(failing, logger, metrics)

	got := r.RetrieveContext(context.Background(), "q", testCorpus())

	assert.Equal(t, "", got)
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "quota exceeded")
	assert.Equal(t, []recordedRetrieval{{"degraded", 0}}, metrics.records)
}

func TestRetrieve_RecordsOutcome(t *testing.T) {
	embedder, _ := staticEmbedder([]float32{1, 0})
	metrics := &fakeRetrievalMetrics{}
	r := NewRetriever(embedder, nil, metrics, WithTopK(2))

	r.Retrieve(context.Background(), "q", testCorpus())
	r.Retrieve(context.Background(), "q", Corpus{chunk("orthogonal", 0, 1)})

	assert.Equal(t, []recordedRetrieval{{"grounded", 2}, {"empty", 0}}, metrics.records)
}

func TestRetriever_ConstructorDefaultsOverriddenPerCall(t *testing.T) {
	embedder, _ := staticEmbedder([]float32{1, 0})
	r := NewRetriever(embedder, nil, nil, WithTopK(1), WithMinScore(0.5))

	assert.Len(t, r.Retrieve(context.Background(), "q", testCorpus()), 1)
	assert.Len(t, r.Retrieve(context.Background(), "q", testCorpus(), WithTopK(5)), 3)
}

func TestRetrieve_ConcurrentReaders(t *testing.T) {
	embedder := EmbedderFunc(func(ctx context.Context, _ string) ([]float32, error) {
		select {
		case <-time.After(time.Millisecond):
		case <-ctx.Done():
		}
		return []float32{1, 0}, nil
	})
	r := NewRetriever(embedder, nil, nil)
	corpus := testCorpus()

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "exact\n\nclose\n\ndiagonal", r.RetrieveContext(context.Background(), "q", corpus))
		}()
	}
	wg.Wait()
	assert.Equal(t, "orthogonal", corpus[0].Text)
}

func TestJoinContext(t *testing.T) {
	assert.Equal(t, "", JoinContext(nil))
	assert.Equal(t, "a\n\nb", JoinContext([]domain.ScoredChunk{
		{Chunk: chunk("a")}, {Chunk: chunk("b")},
	}))
}
