package search

import (
	"math"

	"github.com/poiesic/newslens/core"
)

// CosineSimilarity returns the cosine of the angle between a and b.
// Vectors of different length, empty vectors and zero vectors score 0.
func CosineSimilarity(a, b core.Vector) float64 {
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
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// dot assumes equal lengths.
func dot(a, b core.Vector) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
