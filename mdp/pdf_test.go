package mdp

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

func TestDiscretePdf_ChooseWalksInOrder(t *testing.T) {
	pdf := DiscretePdf[string]{}
	pdf.Add("a", 0.2)
	pdf.Add("b", 0.5)
	pdf.Add("c", 0.3)
	require.NoError(t, pdf.Check())

	tests := []struct {
		draw float64
		want string
	}{
		{0.0, "a"},
		{0.19, "a"},
		{0.2, "b"},
		{0.69, "b"},
		{0.7, "c"},
		{0.999, "c"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pdf.Choose(fixedSource(tt.draw)), "draw=%v", tt.draw)
	}
}

func TestDiscretePdf_ChooseFallsBackToLast(t *testing.T) {
	// Mass short of 1 by rounding: draws past the cumulative total land on
	// the last outcome.
	pdf := DiscretePdf[int]{Outcomes: []int{1, 2}, Probs: []Probability{0.3, 0.6999999}}
	assert.Equal(t, 2, pdf.Choose(fixedSource(0.99999999)))
}

func TestDiscretePdf_AddAccumulates(t *testing.T) {
	pdf := DiscretePdf[string]{}
	pdf.Add("x", 0.25)
	pdf.Add("x", 0.25)
	pdf.Add("y", 0.5)
	assert.Equal(t, 2, pdf.Len())
	assert.InDelta(t, 0.5, float64(pdf.Prob("x")), 1e-12)
	assert.Zero(t, pdf.Prob("z"))
}

func TestDiscretePdf_Check(t *testing.T) {
	bad := DiscretePdf[string]{Outcomes: []string{"a"}, Probs: []Probability{0.5}}
	assert.ErrorIs(t, bad.Check(), ErrNotNormalized)

	neg := DiscretePdf[string]{Outcomes: []string{"a", "b"}, Probs: []Probability{1.5, -0.5}}
	assert.ErrorIs(t, neg.Check(), ErrNotNormalized)
}

func TestDiscretePdf_ChooseEmptyPanics(t *testing.T) {
	assert.Panics(t, func() {
		DiscretePdf[int]{}.Choose(rand.New(rand.NewPCG(1, 0)))
	})
}

func TestActionDelta(t *testing.T) {
	want := map[Action][2]int{Up: {-1, 0}, Right: {0, 1}, Down: {1, 0}, Left: {0, -1}}
	for _, a := range Actions {
		dr, dc := a.Delta()
		assert.Equal(t, want[a], [2]int{dr, dc}, string(a))
	}
	assert.Panics(t, func() { Action("diagonal").Delta() })
}
