package noise

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Laplace perturbs counts with Laplace noise of scale 1/epsilon
// (sensitivity 1), drawn from an explicitly seeded source. Deterministic
// for a given seed; draws across rounds are independent.
type Laplace struct {
	src rand.Source
}

// NewLaplace creates a Laplace mechanism seeded with the given value.
// Callers running repeated trials must use an independently seeded
// mechanism per trial to avoid correlated draws.
func NewLaplace(seed uint64) *Laplace {
	return &Laplace{src: rand.NewSource(seed)}
}

// Perturb adds Laplace noise calibrated to epsilon. An infinite epsilon
// returns the count unchanged.
func (l *Laplace) Perturb(x int64, epsilon float64) (float64, error) {
	if err := checkEpsilon(epsilon); err != nil {
		return 0, err
	}
	if math.IsInf(epsilon, 1) {
		return float64(x), nil
	}
	dist := distuv.Laplace{Mu: float64(x), Scale: 1 / epsilon, Src: l.src}
	return dist.Rand(), nil
}
