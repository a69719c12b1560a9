package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	v := []float64{1, 3}
	sum := Normalize(v)

	assert.Equal(t, 4.0, sum)
	assert.InDelta(t, 0.25, v[0], 1e-12)
	assert.InDelta(t, 0.75, v[1], 1e-12)

	z := []float64{0, 0, 0, 0}
	assert.Equal(t, 0.0, Normalize(z))
	assert.Equal(t, []float64{0.25, 0.25, 0.25, 0.25}, z)
}

func TestArgMaxAndRank(t *testing.T) {
	v := []float64{0.2, 0.5, 0.5, 0.1}

	assert.Equal(t, 1, ArgMax(v, 1e-20))
	assert.Equal(t, 0, RankOf(v, 1, 1e-20))
	assert.Equal(t, 1, RankOf(v, 2, 1e-20))
	assert.Equal(t, 3, RankOf(v, 3, 1e-20))

	// everything below the floor ties, the lowest index wins
	assert.Equal(t, 0, ArgMax([]float64{0, 0, 0}, 1e-20))
}
