package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity_Identities(t *testing.T) {
	v := []float32{0.3, -1.2, 4, 0.5}
	neg := []float32{-0.3, 1.2, -4, -0.5}

	assert.InDelta(t, 1, CosineSimilarity(v, v), 1e-9)
	assert.InDelta(t, -1, CosineSimilarity(v, neg), 1e-9)
	assert.InDelta(t, CosineSimilarity(v, neg), CosineSimilarity(neg, v), 1e-12)
}

func TestCosineSimilarity_Orthogonal(t *testing.T) {
	assert.InDelta(t, 0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-12)
}

func TestCosineSimilarity_ScaleInvariant(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{10, 20, 30}

	assert.InDelta(t, 1, CosineSimilarity(a, b), 1e-9)
}

func TestCosineSimilarity_DegenerateInputs(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
	}{
		{"both empty", nil, nil},
		{"one empty", []float32{1}, []float32{}},
		{"length mismatch", []float32{1, 2}, []float32{1, 2, 3}},
		{"zero vector", []float32{0, 0}, []float32{1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Zero(t, CosineSimilarity(tt.a, tt.b))
		})
	}
}

func TestCosineSimilarity_StaysInRange(t *testing.T) {
	a := []float32{1e-20, 3e-20}
	b := []float32{2e-20, 6e-20}

	got := CosineSimilarity(a, b)
	assert.LessOrEqual(t, got, 1.0)
	assert.GreaterOrEqual(t, got, -1.0)
}
