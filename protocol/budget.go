package protocol

import (
	"fmt"
	"math"
)

// Schedule decides how a total privacy budget is split across the rounds
// of a run. The exact composition strategy is configurable; callers that
// have no preference should use a uniform split.
type Schedule interface {
	// EpsilonTotal returns the total budget the schedule distributes.
	EpsilonTotal() float64

	// EpsilonForRound returns the budget allotted to the given round.
	EpsilonForRound(round int) float64
}

// UniformSchedule splits the total budget evenly across a fixed number of
// rounds.
type UniformSchedule struct {
	total  float64
	rounds int
}

// NewUniformSchedule creates a uniform split of epsilonTotal across
// rounds. Both must be positive.
func NewUniformSchedule(epsilonTotal float64, rounds int) (*UniformSchedule, error) {
	if epsilonTotal <= 0 || math.IsNaN(epsilonTotal) {
		return nil, fmt.Errorf("%w: epsilon total %v must be positive", ErrInvalidConfiguration, epsilonTotal)
	}
	if rounds < 1 {
		return nil, fmt.Errorf("%w: schedule needs at least one round, got %d", ErrInvalidConfiguration, rounds)
	}
	return &UniformSchedule{total: epsilonTotal, rounds: rounds}, nil
}

func (s *UniformSchedule) EpsilonTotal() float64 {
	return s.total
}

func (s *UniformSchedule) EpsilonForRound(round int) float64 {
	return s.total / float64(s.rounds)
}

// DecaySchedule front-loads the budget geometrically: early rounds, whose
// branching decisions discard the largest fractions of the domain, receive
// more budget (less noise) than late rounds. Round i is allotted
// eps_0 * gamma^i with eps_0 chosen so the allotments sum to the total.
type DecaySchedule struct {
	total  float64
	rounds int
	gamma  float64
	first  float64
}

// NewDecaySchedule creates a front-loaded geometric split with decay
// factor gamma in (0, 1).
func NewDecaySchedule(epsilonTotal float64, rounds int, gamma float64) (*DecaySchedule, error) {
	if epsilonTotal <= 0 || math.IsNaN(epsilonTotal) {
		return nil, fmt.Errorf("%w: epsilon total %v must be positive", ErrInvalidConfiguration, epsilonTotal)
	}
	if rounds < 1 {
		return nil, fmt.Errorf("%w: schedule needs at least one round, got %d", ErrInvalidConfiguration, rounds)
	}
	if gamma <= 0 || gamma >= 1 {
		return nil, fmt.Errorf("%w: decay factor %v outside (0, 1)", ErrInvalidConfiguration, gamma)
	}
	first := epsilonTotal * (1 - gamma) / (1 - math.Pow(gamma, float64(rounds)))
	return &DecaySchedule{total: epsilonTotal, rounds: rounds, gamma: gamma, first: first}, nil
}

func (s *DecaySchedule) EpsilonTotal() float64 {
	return s.total
}

func (s *DecaySchedule) EpsilonForRound(round int) float64 {
	if round >= s.rounds {
		return 0
	}
	return s.first * math.Pow(s.gamma, float64(round))
}

// budgetSlack absorbs floating-point rounding when per-round allotments
// are summed back up against the total.
const budgetSlack = 1e-9

// PrivacyBudget tracks cumulative epsilon spend for one run. It is owned
// and mutated by a single DPRunner; the cumulative spend never exceeds the
// total.
type PrivacyBudget struct {
	total float64
	spent float64
}

// NewPrivacyBudget creates a budget with the given total epsilon.
func NewPrivacyBudget(epsilonTotal float64) (*PrivacyBudget, error) {
	if epsilonTotal <= 0 || math.IsNaN(epsilonTotal) {
		return nil, fmt.Errorf("%w: epsilon total %v must be positive", ErrInvalidConfiguration, epsilonTotal)
	}
	return &PrivacyBudget{total: epsilonTotal}, nil
}

// Spend consumes epsilon from the budget, or returns ErrBudgetExhausted
// (leaving the budget untouched) if the remainder is insufficient.
func (b *PrivacyBudget) Spend(epsilon float64) error {
	if epsilon <= 0 || math.IsNaN(epsilon) {
		return fmt.Errorf("%w: round epsilon %v must be positive", ErrInvalidConfiguration, epsilon)
	}
	if b.spent+epsilon > b.total*(1+budgetSlack) {
		return fmt.Errorf("%w: %v spent of %v total, cannot spend %v more", ErrBudgetExhausted, b.spent, b.total, epsilon)
	}
	b.spent += epsilon
	return nil
}

// Spent returns the cumulative epsilon consumed so far.
func (b *PrivacyBudget) Spent() float64 {
	return b.spent
}

// Remaining returns the unconsumed budget.
func (b *PrivacyBudget) Remaining() float64 {
	return math.Max(0, b.total-b.spent)
}
