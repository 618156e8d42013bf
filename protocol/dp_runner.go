package protocol

import (
	"context"
	"fmt"
)

// NoiseMechanism perturbs an aggregated per-round count before it is used
// for branching. Implementations are calibrated to sensitivity 1: changing
// one party's value changes the count by at most 1. A mechanism must be
// stateless across rounds beyond its random source; it must not condition
// its draws on prior rounds' outcomes.
type NoiseMechanism interface {
	Perturb(x int64, epsilon float64) (float64, error)
}

// DPConfig configures the differentially private protocol variant.
type DPConfig struct {
	Config

	// Mechanism draws the per-round noise. Required.
	Mechanism NoiseMechanism

	// Schedule splits the total privacy budget across rounds. Required.
	Schedule Schedule
}

// DPRunner composes the star protocol's round logic with a noise
// mechanism: the branching decision of every round uses the noisy count,
// never the raw one. The runner owns the run's privacy budget and refuses
// to start a round it cannot pay for.
//
// Because branching uses a noisy signal, the settled interval may not
// contain the true k-th ranked value: the output is an approximation.
type DPRunner struct {
	inner     *StarProtocol
	mechanism NoiseMechanism
	schedule  Schedule
}

// NewDPRunner creates a DP-variant runner over the given parties.
func NewDPRunner(cfg DPConfig, parties []Party) (*DPRunner, error) {
	if cfg.Mechanism == nil {
		return nil, fmt.Errorf("%w: noise mechanism is required", ErrInvalidConfiguration)
	}
	if cfg.Schedule == nil {
		return nil, fmt.Errorf("%w: budget schedule is required", ErrInvalidConfiguration)
	}
	inner, err := New(cfg.Config, parties)
	if err != nil {
		return nil, err
	}
	return &DPRunner{
		inner:     inner,
		mechanism: cfg.Mechanism,
		schedule:  cfg.Schedule,
	}, nil
}

// Run executes the noisy binary search. If the budget runs out before the
// interval settles, the partial interval's midpoint is reported as the
// estimate alongside an error wrapping ErrBudgetExhausted; the run never
// silently continues unprotected.
func (r *DPRunner) Run(ctx context.Context) (*Outcome, error) {
	budget, err := NewPrivacyBudget(r.schedule.EpsilonTotal())
	if err != nil {
		return nil, err
	}

	p := r.inner
	interval := p.cfg.Domain.FullInterval()
	trace := make([]Round, 0, p.cfg.Domain.Bits)
	condition := ConditionNone

	for round := 0; !interval.Settled(); round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		epsilon := r.schedule.EpsilonForRound(round)
		if err := budget.Spend(epsilon); err != nil {
			outcome := &Outcome{
				Estimate:  interval.Midpoint(),
				Rounds:    len(trace),
				Trace:     trace,
				Condition: ConditionBudgetExhausted,
			}
			return outcome, fmt.Errorf("round %d: %w", round, err)
		}

		threshold := interval.Threshold()
		rawCount, responded, absent, err := p.collectCount(ctx, round, threshold)
		if err != nil {
			return nil, err
		}
		if len(absent) > 0 {
			condition = ConditionPartiesAbsent
		}

		noisyCount, err := r.mechanism.Perturb(int64(rawCount), epsilon)
		if err != nil {
			return nil, fmt.Errorf("perturbing round %d count: %w", round, err)
		}

		interval = r.branchNoisy(interval, threshold, noisyCount)
		trace = append(trace, Round{
			Index:      round,
			Threshold:  threshold,
			RawCount:   rawCount,
			NoisyCount: noisyCount,
			Responded:  responded,
			Absent:     absent,
			Interval:   interval,
		})

		p.log.Debug("noisy round complete",
			"round", round, "threshold", threshold,
			"rawCount", rawCount, "noisyCount", noisyCount,
			"epsilonSpent", budget.Spent(),
			"low", interval.Low, "high", interval.High)
	}

	return &Outcome{
		Estimate:  interval.Low,
		Rounds:    len(trace),
		Trace:     trace,
		Condition: condition,
	}, nil
}

// branchNoisy mirrors the leaky branch but compares the noisy count
// against the required count.
func (r *DPRunner) branchNoisy(interval SearchInterval, threshold uint64, noisyCount float64) SearchInterval {
	if noisyCount >= float64(r.inner.requiredCount()) {
		interval.Low = threshold
		return interval
	}
	if threshold == 0 {
		interval.High = 0
		return interval
	}
	interval.High = threshold - 1
	return interval
}
