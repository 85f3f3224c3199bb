package mdp

import "math"

// Boltzmann turns energies (lower is better) into a softmax distribution
// with sharpness gamma: p(i) ∝ exp(-gamma * (E(i) - min E)). Shifting by the
// minimum keeps the exponent at or below zero.
func Boltzmann[Category comparable](outcomes []Category, energies []float64, gamma float64) DiscretePdf[Category] {
	pdf := DiscretePdf[Category]{}
	if len(outcomes) == 0 {
		return pdf
	}
	minE := math.Inf(1)
	for _, e := range energies {
		if e < minE {
			minE = e
		}
	}
	weights := make([]float64, len(energies))
	sum := 0.0
	for i, e := range energies {
		weights[i] = math.Exp(-gamma * (e - minE))
		sum += weights[i]
	}
	pdf.Outcomes = make([]Category, len(outcomes))
	pdf.Probs = make([]Probability, len(outcomes))
	for i := range outcomes {
		pdf.Outcomes[i] = outcomes[i]
		pdf.Probs[i] = Probability(weights[i] / sum)
	}
	return pdf
}
