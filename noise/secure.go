package noise

import (
	"math"

	dpnoise "github.com/google/differential-privacy/go/v3/noise"
)

// SecureLaplace perturbs counts with the hardened Laplace sampler of the
// google differential-privacy library, which samples through a geometric
// mechanism that avoids the privacy leaks of naive floating-point Laplace
// generation. Not seedable: draws come from a cryptographically secure
// source, so it cannot be used where reproducibility is required.
type SecureLaplace struct {
	noise dpnoise.Noise
}

// NewSecureLaplace creates a hardened Laplace mechanism.
func NewSecureLaplace() *SecureLaplace {
	return &SecureLaplace{noise: dpnoise.Laplace()}
}

// Perturb adds integer Laplace noise calibrated to epsilon at sensitivity
// 1. An infinite epsilon returns the count unchanged.
func (s *SecureLaplace) Perturb(x int64, epsilon float64) (float64, error) {
	if err := checkEpsilon(epsilon); err != nil {
		return 0, err
	}
	if math.IsInf(epsilon, 1) {
		return float64(x), nil
	}
	noisy, err := s.noise.AddNoiseInt64(x, 1, 1, epsilon, 0)
	if err != nil {
		return 0, err
	}
	return float64(noisy), nil
}
