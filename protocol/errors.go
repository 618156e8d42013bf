package protocol

import "errors"

var (
	// ErrInvalidConfiguration indicates a configuration problem detected
	// before any round executes: k outside [1, n], an empty party set, a
	// value outside the domain, or a non-positive epsilon. Never retried.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrPartyUnavailable indicates that no party responded within its
	// per-invocation timeout in a round, leaving nothing to count.
	// Individual unavailable parties are recovered locally and only
	// recorded in the round trace.
	ErrPartyUnavailable = errors.New("party unavailable")

	// ErrBudgetExhausted indicates insufficient remaining privacy budget
	// to safely run another round. The run stops and reports the partial
	// interval rather than continuing unprotected.
	ErrBudgetExhausted = errors.New("privacy budget exhausted")
)

// Condition annotates a best-effort outcome with the circumstance that
// affected it. An empty condition means the run completed normally.
type Condition string

const (
	ConditionNone            Condition = ""
	ConditionPartiesAbsent   Condition = "parties_absent"
	ConditionBudgetExhausted Condition = "budget_exhausted"
)
