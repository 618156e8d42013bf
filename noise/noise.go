package noise

import (
	"fmt"
	"math"
)

// Level is a preset noise magnitude. Levels map to per-round epsilon
// values; LevelNone disables perturbation entirely (infinite epsilon) and
// exists for benchmarking the DP machinery without its accuracy cost.
type Level string

const (
	LevelNone   Level = "none"
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Levels lists the presets that actually perturb, in increasing noise order.
var Levels = []Level{LevelLow, LevelMedium, LevelHigh}

// ParseLevel converts a string into a Level.
func ParseLevel(s string) (Level, error) {
	switch Level(s) {
	case LevelNone, LevelLow, LevelMedium, LevelHigh:
		return Level(s), nil
	}
	return "", fmt.Errorf("unknown noise level %q", s)
}

// EpsilonPerRound returns the per-round epsilon the level stands for.
// The magnitudes correspond to Laplace scales of 0.2, 0.5 and 2.0 at
// sensitivity 1.
func (l Level) EpsilonPerRound() float64 {
	switch l {
	case LevelLow:
		return 5.0
	case LevelMedium:
		return 2.0
	case LevelHigh:
		return 0.5
	}
	return math.Inf(1)
}

// EpsilonTotal returns the run-total epsilon for a protocol of the given
// number of rounds at this level, assuming a uniform composition schedule.
func (l Level) EpsilonTotal(rounds int) float64 {
	return l.EpsilonPerRound() * float64(rounds)
}

func (l Level) String() string {
	if l == LevelNone {
		return "none"
	}
	return string(l)
}

func checkEpsilon(epsilon float64) error {
	if math.IsNaN(epsilon) || epsilon <= 0 {
		return fmt.Errorf("epsilon %v must be positive", epsilon)
	}
	return nil
}
