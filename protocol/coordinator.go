package protocol

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultPartyTimeout bounds a single comparison invocation when the
// configuration does not set one. No party interaction may block a round
// indefinitely.
const DefaultPartyTimeout = 5 * time.Second

// Config contains the parameters shared by both protocol variants.
type Config struct {
	// Domain is the value domain [0, 2^L) for the run.
	Domain Domain

	// K selects the rank target, in [1, n]. K=1 selects the minimum,
	// K=n the maximum.
	K int

	// PartyTimeout bounds each per-party comparison invocation. Parties
	// that miss it are treated as absent for the round. Defaults to
	// DefaultPartyTimeout.
	PartyTimeout time.Duration

	// Log is the structured logger for coordinator operations. Defaults
	// to slog.Default().
	Log *slog.Logger
}

func (cfg *Config) withDefaults() Config {
	out := *cfg
	if out.PartyTimeout <= 0 {
		out.PartyTimeout = DefaultPartyTimeout
	}
	if out.Log == nil {
		out.Log = slog.Default()
	}
	return out
}

func (cfg *Config) validate(n int) error {
	if !cfg.Domain.Valid() {
		return fmt.Errorf("%w: domain bit length %d outside [1, 64]", ErrInvalidConfiguration, cfg.Domain.Bits)
	}
	if n == 0 {
		return fmt.Errorf("%w: no parties", ErrInvalidConfiguration)
	}
	if cfg.K < 1 || cfg.K > n {
		return fmt.Errorf("%w: k=%d outside [1, %d]", ErrInvalidConfiguration, cfg.K, n)
	}
	return nil
}

// StarProtocol is the leaky-variant coordinator. A single logical thread
// drives rounds; each round fans comparisons out to all parties in
// parallel and joins before the branching decision. The coordinator owns
// the search interval and the round trace; a run's state is fully isolated
// so many runs can execute concurrently over disjoint party sets.
type StarProtocol struct {
	cfg     Config
	parties []Party
	log     *slog.Logger
}

// New creates a leaky-variant coordinator over the given parties.
// Configuration errors are reported immediately, before any round executes.
func New(cfg Config, parties []Party) (*StarProtocol, error) {
	if err := cfg.validate(len(parties)); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	return &StarProtocol{
		cfg:     cfg,
		parties: parties,
		log:     cfg.Log,
	}, nil
}

// Run executes the binary search to completion and returns the exact k-th
// ranked value. The run may be aborted between rounds via ctx; partial
// state is discarded.
func (p *StarProtocol) Run(ctx context.Context) (*Outcome, error) {
	interval := p.cfg.Domain.FullInterval()
	trace := make([]Round, 0, p.cfg.Domain.Bits)
	condition := ConditionNone

	for round := 0; !interval.Settled(); round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		threshold := interval.Threshold()
		count, responded, absent, err := p.collectCount(ctx, round, threshold)
		if err != nil {
			return nil, err
		}
		if len(absent) > 0 {
			condition = ConditionPartiesAbsent
		}

		interval = p.branch(interval, threshold, count)
		trace = append(trace, Round{
			Index:      round,
			Threshold:  threshold,
			RawCount:   count,
			NoisyCount: float64(count),
			Responded:  responded,
			Absent:     absent,
			Interval:   interval,
		})

		p.log.Debug("round complete",
			"round", round, "threshold", threshold, "count", count,
			"low", interval.Low, "high", interval.High)
	}

	return &Outcome{
		Estimate:  interval.Low,
		Rounds:    len(trace),
		Trace:     trace,
		Condition: condition,
	}, nil
}

// branch narrows the interval based on the (possibly noisy) count of
// parties at or above the threshold. At least n-k+1 such parties means the
// k-th ranked value lies in the upper half.
func (p *StarProtocol) branch(interval SearchInterval, threshold uint64, count int) SearchInterval {
	if count >= p.requiredCount() {
		interval.Low = threshold
		return interval
	}
	// For an unsettled interval the threshold is strictly above Low, so
	// the decrement cannot underflow. Guarded anyway: at the domain
	// floor the lower half collapses to the single value 0.
	if threshold == 0 {
		interval.High = 0
		return interval
	}
	interval.High = threshold - 1
	return interval
}

// requiredCount is the number of at-or-above-threshold parties that places
// the k-th ranked value in the upper half of the interval.
func (p *StarProtocol) requiredCount() int {
	return len(p.parties) - p.cfg.K + 1
}

// collectCount fans the comparison out to every party in parallel and
// joins before aggregating. No ordering is guaranteed across parties
// within a round, but all results (or timeouts) are collected before the
// count is returned, since the count is a function of the full set.
func (p *StarProtocol) collectCount(ctx context.Context, round int, threshold uint64) (count, responded int, absent []int, err error) {
	type result struct {
		bit bool
		err error
	}
	results := make([]result, len(p.parties))

	var wg sync.WaitGroup
	for i, party := range p.parties {
		wg.Add(1)
		go func(i int, party Party) {
			defer wg.Done()
			invokeCtx, cancel := context.WithTimeout(ctx, p.cfg.PartyTimeout)
			defer cancel()
			bit, err := party.RespondToComparison(invokeCtx, round, threshold)
			results[i] = result{bit: bit, err: err}
		}(i, party)
	}
	wg.Wait()

	for i, res := range results {
		if res.err != nil {
			p.log.Warn("party absent for round", "party", i, "round", round, "err", res.err)
			absent = append(absent, i)
			continue
		}
		responded++
		if res.bit {
			count++
		}
	}

	if responded == 0 {
		return 0, 0, absent, fmt.Errorf("%w: no party responded in round %d", ErrPartyUnavailable, round)
	}
	return count, responded, absent, nil
}
