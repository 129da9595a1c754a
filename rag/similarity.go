// Package rag selects grounding context for the advisor: cosine similarity
// over a static corpus of embedded chunks, top-k selection and a minimum
// score cut-off.
package rag

import "math"

// CosineSimilarity returns the cosine of the angle between a and b, in
// [-1, 1]. It is 0 when either vector is empty, the lengths differ, or either
// has zero magnitude.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if math.IsNaN(sim) {
		return 0
	}
	return math.Max(-1, math.Min(1, sim))
}
