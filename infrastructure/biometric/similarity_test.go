package biometric

import (
	"errors"
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical vectors score 1", func(t *testing.T) {
		v := []float32{0.1, 0.5, -0.3, 0.8}
		got, err := CosineSimilarity(v, v)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if math.Abs(got-1.0) > 1e-6 {
			t.Errorf("expected similarity 1.0, got %f", got)
		}
	})

	t.Run("orthogonal vectors score 0", func(t *testing.T) {
		got, err := CosineSimilarity([]float32{1, 0}, []float32{0, 1})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if math.Abs(got) > 1e-6 {
			t.Errorf("expected similarity 0, got %f", got)
		}
	})

	t.Run("opposite vectors score -1", func(t *testing.T) {
		got, err := CosineSimilarity([]float32{1, 2, 3}, []float32{-1, -2, -3})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if math.Abs(got+1.0) > 1e-6 {
			t.Errorf("expected similarity -1.0, got %f", got)
		}
	})

	t.Run("similarity is symmetric", func(t *testing.T) {
		a := []float32{0.2, -0.4, 0.9}
		b := []float32{0.7, 0.1, -0.2}
		ab, _ := CosineSimilarity(a, b)
		ba, _ := CosineSimilarity(b, a)
		if ab != ba {
			t.Errorf("expected symmetric similarity, got %f and %f", ab, ba)
		}
	})

	t.Run("zero vector scores 0 without error", func(t *testing.T) {
		got, err := CosineSimilarity([]float32{0, 0, 0}, []float32{1, 2, 3})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != 0 {
			t.Errorf("expected similarity 0 for a zero vector, got %f", got)
		}
	})

	t.Run("dimension mismatch is an error", func(t *testing.T) {
		_, err := CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3})
		if !errors.Is(err, ErrDimensionMismatch) {
			t.Fatalf("expected ErrDimensionMismatch, got %v", err)
		}
	})
}

func TestEuclideanDistance(t *testing.T) {
	t.Run("identical vectors are zero apart", func(t *testing.T) {
		v := []float32{0.3, -0.1, 0.6}
		got, err := EuclideanDistance(v, v)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != 0 {
			t.Errorf("expected distance 0, got %f", got)
		}
	})

	t.Run("matches the pythagorean triple", func(t *testing.T) {
		got, err := EuclideanDistance([]float32{0, 0}, []float32{3, 4})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if math.Abs(got-5.0) > 1e-6 {
			t.Errorf("expected distance 5, got %f", got)
		}
	})

	t.Run("dimension mismatch is an error", func(t *testing.T) {
		_, err := EuclideanDistance([]float32{1}, []float32{1, 2})
		if !errors.Is(err, ErrDimensionMismatch) {
			t.Fatalf("expected ErrDimensionMismatch, got %v", err)
		}
	})
}

func TestNormalizeEmbedding(t *testing.T) {
	t.Run("produces a unit vector", func(t *testing.T) {
		normalized := normalizeEmbedding([]float32{3, 4})
		if math.Abs(calculateNorm(normalized)-1.0) > 1e-6 {
			t.Errorf("expected unit norm, got %f", calculateNorm(normalized))
		}
	})

	t.Run("leaves a zero vector untouched", func(t *testing.T) {
		normalized := normalizeEmbedding([]float32{0, 0, 0})
		if calculateNorm(normalized) != 0 {
			t.Error("expected the zero vector to stay zero")
		}
	})
}
