// Package embed turns text into fixed-dimension vectors for semantic
// similarity scoring. Backends are read-only after construction and safe
// for concurrent Encode calls.
package embed

import (
	"context"
	"math"
)

// Encoder encodes one text into a fixed-dimension embedding vector.
type Encoder interface {
	Encode(ctx context.Context, text string) ([]float32, error)
}

// Cosine returns the cosine similarity of two vectors, defensively clamped
// to [-1, 1]. Mismatched dimensions or a zero-norm vector yield 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	return math.Max(-1, math.Min(1, sim))
}
