package rag

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"loan-advisor/domain"
	"loan-advisor/observability"
)

const (
	DefaultTopK     = 5
	DefaultMinScore = 0.1
)

// ContextSeparator joins the texts of the selected chunks.
const ContextSeparator = "\n\n"

type options struct {
	topK     int
	minScore float64
}

// Option tunes a retrieval.
type Option func(*options)

// WithTopK sets how many chunks are kept before the score cut-off.
// Values ≤ 0 fall back to DefaultTopK.
func WithTopK(k int) Option {
	return func(o *options) { o.topK = k }
}

// WithMinScore sets the cut-off: chunks scoring at or below it are dropped.
func WithMinScore(score float64) Option {
	return func(o *options) { o.minScore = score }
}

// Retriever selects the corpus chunks most similar to a query.
type Retriever struct {
	embedder Embedder
	logger   *slog.Logger
	metrics  observability.RetrievalMetrics
	defaults options
}

// NewRetriever returns a Retriever embedding queries with embedder. opts set
// the defaults applied to every call. logger and metrics may be nil.
func NewRetriever(embedder Embedder, logger *slog.Logger, metrics observability.RetrievalMetrics, opts ...Option) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Retriever{
		embedder: embedder,
		logger:   logger,
		metrics:  metrics,
		defaults: options{topK: DefaultTopK, minScore: DefaultMinScore},
	}
	for _, opt := range opts {
		opt(&r.defaults)
	}
	return r
}

// Retrieve returns at most k chunks scoring above minScore, best first.
// Retrieval never fails: an empty corpus or an embedding error yields no
// chunks, the latter logged at warn.
func (r *Retriever) Retrieve(ctx context.Context, query string, corpus Corpus, opts ...Option) []domain.ScoredChunk {
	o := r.defaults
	for _, opt := range opts {
		opt(&o)
	}

	if len(corpus) == 0 {
		r.record(ctx, observability.RetrievalNoCorpus, 0)
		return nil
	}

	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		r.logger.WarnContext(ctx, "retrieval degraded: query embedding failed", "error", err)
		r.record(ctx, observability.RetrievalDegraded, 0)
		return nil
	}

	selected := Rank(vec, corpus, o.topK, o.minScore)
	if len(selected) == 0 {
		r.logger.DebugContext(ctx, "retrieval found no chunk above threshold", "min_score", o.minScore)
		r.record(ctx, observability.RetrievalEmpty, 0)
		return nil
	}

	r.record(ctx, observability.RetrievalGrounded, len(selected))
	return selected
}

// RetrieveContext is Retrieve with the chunk texts joined by ContextSeparator.
// It returns "" when nothing qualifies.
func (r *Retriever) RetrieveContext(ctx context.Context, query string, corpus Corpus, opts ...Option) string {
	return JoinContext(r.Retrieve(ctx, query, corpus, opts...))
}

func (r *Retriever) record(ctx context.Context, outcome string, chunks int) {
	if r.metrics != nil {
		r.metrics.RecordRetrieval(ctx, outcome, chunks)
	}
}

// Rank scores every chunk against query, sorts descending with ties in corpus
// order, keeps the first topK and then drops scores ≤ minScore.
func Rank(query []float32, corpus Corpus, topK int, minScore float64) []domain.ScoredChunk {
	if topK <= 0 {
		topK = DefaultTopK
	}

	scored := make([]domain.ScoredChunk, len(corpus))
	for i, ch := range corpus {
		scored[i] = domain.ScoredChunk{Chunk: ch, Score: CosineSimilarity(query, ch.Embedding)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if topK < len(scored) {
		scored = scored[:topK]
	}

	out := scored[:0]
	for _, sc := range scored {
		if sc.Score > minScore {
			out = append(out, sc)
		}
	}
	return out
}

// JoinContext concatenates chunk texts in order, separated by ContextSeparator.
func JoinContext(chunks []domain.ScoredChunk) string {
	if len(chunks) == 0 {
		return ""
	}
	texts := make([]string, len(chunks))
	for i, sc := range chunks {
		texts[i] = sc.Chunk.Text
	}
	return strings.Join(texts, ContextSeparator)
}
