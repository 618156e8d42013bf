package protocol

// Round records one completed iteration of the binary search. Rounds are
// immutable once recorded and retained only for audit and benchmarking.
type Round struct {
	// Index is the round's position in the run, starting at 0.
	Index int `json:"index"`

	// Threshold is the public comparison threshold used this round.
	Threshold uint64 `json:"threshold"`

	// RawCount is the number of responding parties whose value was at or
	// above the threshold. Counts parties, not distinct values, so
	// duplicate values contribute their full multiplicity.
	RawCount int `json:"raw_count"`

	// NoisyCount is the perturbed count the branching decision used.
	// Equal to RawCount in the leaky variant.
	NoisyCount float64 `json:"noisy_count"`

	// Responded is the number of parties that answered within the
	// per-invocation timeout.
	Responded int `json:"responded"`

	// Absent lists the ordinals of parties that failed to answer. Their
	// values are excluded from this round's count; the discrepancy is
	// recorded here for later audit rather than failing the run.
	Absent []int `json:"absent,omitempty"`

	// Interval is the search interval after this round's branch.
	Interval SearchInterval `json:"interval"`
}

// Outcome is the result of a protocol run.
type Outcome struct {
	// Estimate is the computed k-th ranked value. Exact for the leaky
	// variant; an approximation for the differentially private variant.
	Estimate uint64 `json:"estimate"`

	// Rounds is the number of rounds executed.
	Rounds int `json:"rounds"`

	// Trace holds the ordered per-round records.
	Trace []Round `json:"trace,omitempty"`

	// Condition annotates a best-effort result, e.g. parties that went
	// absent mid-run or an exhausted privacy budget.
	Condition Condition `json:"condition,omitempty"`
}
