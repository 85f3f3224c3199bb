package mdp

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoltzmann_Normalized(t *testing.T) {
	pdf := Boltzmann([]string{"a", "b", "c"}, []float64{-50, -61.8, -40}, 20)
	require.NoError(t, pdf.Check())
	assert.Equal(t, []string{"a", "b", "c"}, pdf.Outcomes)
}

func TestBoltzmann_LowerEnergyExponentiallyMoreLikely(t *testing.T) {
	pdf := Boltzmann([]int{0, 1}, []float64{0, 0.1}, 10)
	ratio := float64(pdf.Probs[0]) / float64(pdf.Probs[1])
	assert.InDelta(t, math.Exp(1), ratio, 1e-9)
}

func TestBoltzmann_TiesAreUniform(t *testing.T) {
	pdf := Boltzmann([]int{0, 1, 2, 3}, []float64{3, 3, 3, 3}, 20)
	for _, p := range pdf.Probs {
		assert.InDelta(t, 0.25, float64(p), 1e-12)
	}
}

func TestBoltzmann_LargeGapsStayFinite(t *testing.T) {
	pdf := Boltzmann([]int{0, 1}, []float64{1e6, -1e6}, 20)
	require.NoError(t, pdf.Check())
	assert.Equal(t, Probability(1), pdf.Probs[1])
	assert.Zero(t, pdf.Probs[0])
}

func TestBoltzmann_Empty(t *testing.T) {
	pdf := Boltzmann[int](nil, nil, 20)
	assert.Zero(t, pdf.Len())
}

func TestBoltzmann_SamplingIsStochastic(t *testing.T) {
	pdf := Boltzmann([]int{0, 1}, []float64{0, 0}, 1)
	rng := rand.New(rand.NewPCG(7, 0))
	seen := map[int]int{}
	for i := 0; i < 200; i++ {
		seen[pdf.Choose(rng)]++
	}
	assert.Len(t, seen, 2)
}
