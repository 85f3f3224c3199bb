package mdp

import (
	"errors"
	"fmt"
	"math"
)

var ErrNotNormalized = errors.New("mdp: probabilities do not sum to 1")

type Probability float64

// DiscretePdf is a finite distribution that keeps its outcomes in insertion
// order so that a single uniform draw maps to the same outcome every time.
type DiscretePdf[Category comparable] struct {
	Outcomes []Category
	Probs    []Probability
}

// Add appends an outcome or accumulates onto an existing one.
func (p *DiscretePdf[Category]) Add(outcome Category, prob Probability) {
	for i, o := range p.Outcomes {
		if o == outcome {
			p.Probs[i] += prob
			return
		}
	}
	p.Outcomes = append(p.Outcomes, outcome)
	p.Probs = append(p.Probs, prob)
}

func (p DiscretePdf[Category]) Len() int {
	return len(p.Outcomes)
}

// Prob returns the mass on outcome, zero if absent.
func (p DiscretePdf[Category]) Prob(outcome Category) Probability {
	for i, o := range p.Outcomes {
		if o == outcome {
			return p.Probs[i]
		}
	}
	return 0
}

// Choose draws once from src and walks the cumulative distribution in
// outcome order. Rounding that leaves the draw past the last bucket selects
// the last outcome. Choose panics on an empty distribution.
func (p DiscretePdf[Category]) Choose(src Source) Category {
	if len(p.Outcomes) == 0 {
		panic("mdp: choose from empty distribution")
	}
	v := src.Float64()
	cumulative := 0.0
	for i, prob := range p.Probs {
		cumulative += float64(prob)
		if v < cumulative {
			return p.Outcomes[i]
		}
	}
	return p.Outcomes[len(p.Outcomes)-1]
}

func (p DiscretePdf[Category]) Check() error {
	sum := 0.0
	for _, prob := range p.Probs {
		if prob < 0 {
			return fmt.Errorf("%w: negative mass %f", ErrNotNormalized, float64(prob))
		}
		sum += float64(prob)
	}
	if math.Abs(sum-1) > .001 {
		return fmt.Errorf("%w: sum=%f", ErrNotNormalized, sum)
	}
	return nil
}
