package storage

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	v := Normalize([]float32{3, 4})
	assert.InDelta(t, 0.6, float64(v[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(v[1]), 1e-6)

	var norm float64
	for _, val := range v {
		norm += float64(val) * float64(val)
	}
	assert.InDelta(t, 1.0, norm, 1e-6)
}

func TestNormalize_ZeroVector(t *testing.T) {
	// The norm is floored at 1, so a zero vector stays zero
	v := Normalize([]float32{0, 0, 0})
	assert.Equal(t, []float32{0, 0, 0}, v)
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	in := []float32{3, 4}
	_ = Normalize(in)
	assert.Equal(t, []float32{3, 4}, in)
}

func TestCosineSimilarity(t *testing.T) {
	a := []float32{1, 0, 0}
	b := []float32{0, 1, 0}

	assert.InDelta(t, 1.0, CosineSimilarity(a, a), 1e-6)
	assert.InDelta(t, 0.0, CosineSimilarity(a, b), 1e-6)

	// Symmetry
	c := []float32{0.5, 0.5, 0}
	assert.InDelta(t, CosineSimilarity(a, c), CosineSimilarity(c, a), 1e-9)

	// Scale invariance
	scaled := []float32{10, 0, 0}
	assert.InDelta(t, 1.0, CosineSimilarity(a, scaled), 1e-6)
}

func TestCosineSimilarity_Degenerate(t *testing.T) {
	assert.Equal(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{1, 0, 0}))
	assert.Equal(t, 0.0, CosineSimilarity([]float32{0, 0}, []float32{1, 0}))
}

func TestSerializeRoundTrip(t *testing.T) {
	original := []float32{0.123456, -0.654321, 1.0, -1.0, 0.0, 3.14159}

	blob := SerializeVector(original)
	require.Len(t, blob, len(original)*4)

	decoded := DeserializeVector(blob)
	require.Len(t, decoded, len(original))
	for i := range original {
		assert.InDelta(t, float64(original[i]), float64(decoded[i]), 1e-5)
	}
}

func TestValidateEmbedding(t *testing.T) {
	assert.ErrorIs(t, validateEmbedding(nil), errEmptyEmbedding)
	assert.ErrorIs(t, validateEmbedding([]float32{}), errEmptyEmbedding)
	assert.ErrorIs(t, validateEmbedding([]float32{0, float32(math.NaN())}), errNonFiniteEmbedding)
	assert.ErrorIs(t, validateEmbedding([]float32{float32(math.Inf(1))}), errNonFiniteEmbedding)
	assert.NoError(t, validateEmbedding([]float32{0.1, -0.2, 0.3}))
}

func TestDotProduct(t *testing.T) {
	a := Normalize([]float32{1, 1})
	assert.InDelta(t, 1.0, dotProduct(a, a), 1e-6)
}
