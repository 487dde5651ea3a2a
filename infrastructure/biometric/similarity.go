package biometric

import (
	"errors"
	"math"
)

var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// CosineSimilarity returns the cosine of the angle between two embeddings in
// [-1, 1]. When either vector has zero magnitude there is no angle to speak
// of and the similarity is 0, which can never clear a match threshold.
func CosineSimilarity(a []float32, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// EuclideanDistance returns the L2 distance between two embeddings.
func EuclideanDistance(a []float32, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}

	var sum float64
	for i := range a {
		diff := float64(a[i]) - float64(b[i])
		sum += diff * diff
	}
	return math.Sqrt(sum), nil
}

// normalizeEmbedding applies L2 normalization in place-ish, returning the
// input untouched when its norm is zero.
func normalizeEmbedding(embedding []float32) []float32 {
	norm := calculateNorm(embedding)
	if norm == 0 {
		return embedding
	}
	normalized := make([]float32, len(embedding))
	for i, v := range embedding {
		normalized[i] = float32(float64(v) / norm)
	}
	return normalized
}

func calculateNorm(embedding []float32) float64 {
	var sum float64
	for _, v := range embedding {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}
