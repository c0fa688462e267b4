package embedding

import (
	"fmt"
	"math"
)

// DistanceMetric represents the type of distance calculation
type DistanceMetric string

const (
	MetricEuclidean DistanceMetric = "euclidean"
	MetricCosine    DistanceMetric = "cosine"
)

// SquaredEuclidean calculates the squared L2 distance between two vectors.
// No dimension check: both slices must come from validated matrices.
// Squared form is used on hot paths; ordering is the same as Euclidean.
func SquaredEuclidean(a, b []float32) float32 {
	sum := float32(0.0)
	for i := 0; i < len(a); i++ {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}

// EuclideanDistance calculates the Euclidean (L2) distance between two vectors
// Formula: sqrt(sum((a[i] - b[i])^2))
// Returns error if vector dimensions don't match
func EuclideanDistance(a, b []float32) (float32, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}
	return float32(math.Sqrt(float64(SquaredEuclidean(a, b)))), nil
}

// Cosine calculates the cosine distance with no dimension check: both
// slices must come from validated matrices. Values range from 0 (identical
// direction) to 2 (opposite).
func Cosine(a, b []float32) float32 {
	dotProd := float32(0.0)
	normA := float32(0.0)
	normB := float32(0.0)
	for i := 0; i < len(a); i++ {
		dotProd += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	// Zero vectors have no direction; treat them as orthogonal to everything
	if normA == 0 || normB == 0 {
		return 1.0
	}

	return 1.0 - dotProd/(float32(math.Sqrt(float64(normA)))*float32(math.Sqrt(float64(normB))))
}

// CosineDistance is the dimension-checked form of Cosine.
func CosineDistance(a, b []float32) (float32, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}
	return Cosine(a, b), nil
}

// Distance calculates the distance between two vectors using the specified metric
// Returns error if vector dimensions don't match
func Distance(a, b []float32, metric DistanceMetric) (float32, error) {
	switch metric {
	case MetricCosine:
		return CosineDistance(a, b)
	case MetricEuclidean:
		return EuclideanDistance(a, b)
	default:
		return EuclideanDistance(a, b)
	}
}
