package llm

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

const defaultHashDimensions = 256

// HashEmbedder is a deterministic bag-of-words embedder used when no provider
// key is configured. Each lower-cased token is hashed into one signed bucket,
// so texts sharing vocabulary score a positive cosine.
type HashEmbedder struct {
	dimensions int
}

func NewHashEmbedder(dimensions int) *HashEmbedder {
	if dimensions <= 0 {
		dimensions = defaultHashDimensions
	}
	return &HashEmbedder{dimensions: dimensions}
}

func (e *HashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(tokens) == 0 {
		return nil, ErrEmptyInput
	}

	vec := make([]float32, e.dimensions)
	for _, tok := range tokens {
		h := fnv.New64a()
		_, _ = h.Write([]byte(tok))
		sum := h.Sum64()

		sign := float32(1)
		if sum>>63 == 1 {
			sign = -1
		}
		vec[sum%uint64(e.dimensions)] += sign
	}

	normalize(vec)
	return vec, nil
}

// normalize scales v to unit length in place. Zero vectors are left alone.
func normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	mag := math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) / mag)
	}
}

// DisabledGenerator is the generator used in offline mode. Callers detect
// ErrDisabled and fall back to their rule-based answers.
type DisabledGenerator struct{}

func (DisabledGenerator) Complete(context.Context, Prompt) (string, error) {
	return "", ErrDisabled
}
