package match

import (
	"math"
	"sort"
)

// Ranked pairs a candidate index with its similarity to the query.
type Ranked struct {
	Index int
	Score float64
}

// CosineSimilarity computes dot(a, b) / (||a|| * ||b||).
// Vectors of different length, empty vectors, zero-norm vectors and vectors
// holding NaN or Inf components yield 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	s := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return 0
	}
	return s
}

// Rank scores every candidate against query and orders them by score descending.
// Equal scores keep their input order.
func Rank(query []float32, candidates [][]float32) []Ranked {
	ranked := make([]Ranked, len(candidates))
	for i, c := range candidates {
		ranked[i] = Ranked{Index: i, Score: CosineSimilarity(query, c)}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked
}
