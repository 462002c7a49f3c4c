package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniformVectors(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.UniformVectors(8, 32)

	assert.Equal(t, 8, len(v))
	assert.Equal(t, 32, len(v[0]))
	assert.LessOrEqual(t, v[0][0], float32(1.0))
	assert.GreaterOrEqual(t, v[1][0], float32(0.0))
}

func TestReset(t *testing.T) {
	rng := NewRNG(42)
	first := rng.UniformVectors(2, 4)
	rng.Reset()
	second := rng.UniformVectors(2, 4)
	assert.Equal(t, first, second)
}

func TestBruteForceSearch(t *testing.T) {
	vectors := [][]float32{{2, 0}, {1, 0}, {1, 0}, {5, 5}}
	got := BruteForceSearch(vectors, []float32{0, 0}, 3)
	assert.Equal(t, []SearchResult{
		{ID: 1, Distance: 1},
		{ID: 2, Distance: 1},
		{ID: 0, Distance: 4},
	}, got)
}
