package noise

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// TwoSidedGeometric perturbs counts with integer-valued noise from the
// two-sided geometric distribution (discrete Laplace), the natural choice
// when the noisy count should remain an integer. Samples are drawn as the
// difference of two Polya variables, each realized as a Gamma-Poisson
// mixture.
type TwoSidedGeometric struct {
	src rand.Source
}

// NewTwoSidedGeometric creates a two-sided geometric mechanism seeded with
// the given value.
func NewTwoSidedGeometric(seed uint64) *TwoSidedGeometric {
	return &TwoSidedGeometric{src: rand.NewSource(seed)}
}

// Perturb adds two-sided geometric noise with parameter p = e^-epsilon at
// sensitivity 1. An infinite epsilon returns the count unchanged.
func (g *TwoSidedGeometric) Perturb(x int64, epsilon float64) (float64, error) {
	if err := checkEpsilon(epsilon); err != nil {
		return 0, err
	}
	if math.IsInf(epsilon, 1) {
		return float64(x), nil
	}
	p := math.Exp(-epsilon)
	return float64(x) + g.polya(p) - g.polya(p), nil
}

// polya draws from Polya(1, p), i.e. a geometric variable, via the
// Gamma-Poisson mixture representation of the negative binomial
// distribution.
func (g *TwoSidedGeometric) polya(p float64) float64 {
	gamma := distuv.Gamma{Alpha: 1, Beta: (1 - p) / p, Src: g.src}.Rand()
	return distuv.Poisson{Lambda: gamma, Src: g.src}.Rand()
}
