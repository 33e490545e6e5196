package cluster

import "gonum.org/v1/gonum/floats"

// CosineDistance returns 1 - cosine similarity of a and b, the metric used
// for fingerprint comparison: fingerprints are direction vectors, so only the
// angle between them matters, not their magnitudes.
//
// A zero-norm operand (the degenerate zero fingerprint) has no direction; by
// convention its distance to anything is 1 so it ends up far from every real
// cluster. Mismatched dimensions are likewise maximally distant.
func CosineDistance(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}
	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - floats.Dot(a, b)/(normA*normB)
}
