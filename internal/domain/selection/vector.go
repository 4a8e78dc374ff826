package selection

import (
	"fmt"
	"math"

	"github.com/0xcro3dile/versebot/internal/domain/entities"
)

// UnitVector is an embedding with Euclidean norm 1. The dot product of two
// UnitVectors is their cosine similarity.
type UnitVector []float32

// Normalize scales v to unit length. It never modifies v.
func Normalize(v []float32) (UnitVector, error) {
	if len(v) == 0 {
		return nil, fmt.Errorf("%w: empty vector", entities.ErrZeroVector)
	}
	norm := l2Norm(v)
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return nil, entities.ErrZeroVector
	}
	out := make(UnitVector, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out, nil
}

// EmbeddingIndex holds one UnitVector per corpus index, all of one dimension.
type EmbeddingIndex struct {
	vectors []UnitVector
	dim     int
}

// NewEmbeddingIndex validates raw vectors and normalizes each of them.
func NewEmbeddingIndex(raw [][]float32) (EmbeddingIndex, error) {
	idx := EmbeddingIndex{vectors: make([]UnitVector, 0, len(raw))}
	for i, v := range raw {
		if err := idx.Append(v); err != nil {
			return EmbeddingIndex{}, fmt.Errorf("vector %d: %w", i, err)
		}
	}
	return idx, nil
}

// Append normalizes v and adds it as the next index.
func (x *EmbeddingIndex) Append(v []float32) error {
	if x.dim != 0 && len(v) != x.dim {
		return fmt.Errorf("%w: got %d, want %d", entities.ErrDimensionMismatch, len(v), x.dim)
	}
	unit, err := Normalize(v)
	if err != nil {
		return err
	}
	x.dim = len(unit)
	x.vectors = append(x.vectors, unit)
	return nil
}

// Len returns the number of indexed vectors.
func (x EmbeddingIndex) Len() int { return len(x.vectors) }

// Dim returns the shared vector dimension, 0 when empty.
func (x EmbeddingIndex) Dim() int { return x.dim }

// Raw returns copies of the normalized vectors as plain slices, for caching.
func (x EmbeddingIndex) Raw() [][]float32 {
	out := make([][]float32, len(x.vectors))
	for i, v := range x.vectors {
		out[i] = append([]float32(nil), v...)
	}
	return out
}

func l2Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func dot(a, b UnitVector) float32 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return float32(sum)
}
