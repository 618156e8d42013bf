package protocol

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// zeroNoise passes counts through unperturbed.
type zeroNoise struct{}

func (zeroNoise) Perturb(x int64, epsilon float64) (float64, error) {
	return float64(x), nil
}

// constantShift perturbs every count by a fixed offset.
type constantShift struct {
	shift float64
}

func (m constantShift) Perturb(x int64, epsilon float64) (float64, error) {
	return float64(x) + m.shift, nil
}

type failingMechanism struct {
	err error
}

func (m failingMechanism) Perturb(x int64, epsilon float64) (float64, error) {
	return 0, m.err
}

func dpConfig(t *testing.T, bits uint8, k int) DPConfig {
	t.Helper()
	schedule, err := NewUniformSchedule(float64(bits), int(bits))
	require.NoError(t, err)
	return DPConfig{
		Config:    Config{Domain: Domain{Bits: bits}, K: k},
		Mechanism: zeroNoise{},
		Schedule:  schedule,
	}
}

func TestDPRunZeroNoiseMatchesLeaky(t *testing.T) {
	values := []uint64{3, 1, 4, 1, 5, 9, 2, 6}

	leaky, err := New(Config{Domain: Domain{Bits: 4}, K: 4}, mockParties(values))
	require.NoError(t, err)
	want, err := leaky.Run(context.Background())
	require.NoError(t, err)

	r, err := NewDPRunner(dpConfig(t, 4, 4), mockParties(values))
	require.NoError(t, err)
	got, err := r.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, want.Estimate, got.Estimate)
	require.Equal(t, want.Rounds, got.Rounds)
	for i := range want.Trace {
		require.Equal(t, want.Trace[i].Threshold, got.Trace[i].Threshold)
		require.Equal(t, want.Trace[i].RawCount, got.Trace[i].RawCount)
		require.Equal(t, want.Trace[i].Interval, got.Trace[i].Interval)
	}
}

func TestDPRunRecordsNoisyCounts(t *testing.T) {
	values := []uint64{3, 1, 4, 1, 5, 9, 2, 6}
	cfg := dpConfig(t, 4, 4)
	cfg.Mechanism = constantShift{shift: 0.25}

	r, err := NewDPRunner(cfg, mockParties(values))
	require.NoError(t, err)
	outcome, err := r.Run(context.Background())
	require.NoError(t, err)

	for _, round := range outcome.Trace {
		require.Equal(t, float64(round.RawCount)+0.25, round.NoisyCount, "round %d", round.Index)
	}
}

func TestDPRunNoiseCanFlipBranch(t *testing.T) {
	// A large positive shift makes every noisy count clear the bar, so
	// the search walks to the top of the domain regardless of the data.
	values := []uint64{1, 2, 3, 4}
	cfg := dpConfig(t, 4, 2)
	cfg.Mechanism = constantShift{shift: 100}

	r, err := NewDPRunner(cfg, mockParties(values))
	require.NoError(t, err)
	outcome, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(15), outcome.Estimate)
}

func TestDPRunBudgetExhaustion(t *testing.T) {
	// Two rounds of budget for a search that needs four. The run must
	// stop with a partial estimate instead of continuing unprotected.
	values := []uint64{3, 1, 4, 1, 5, 9, 2, 6}
	schedule, err := NewUniformSchedule(1.0, 2)
	require.NoError(t, err)

	r, err := NewDPRunner(DPConfig{
		Config:    Config{Domain: Domain{Bits: 4}, K: 4},
		Mechanism: zeroNoise{},
		Schedule:  schedule,
	}, mockParties(values))
	require.NoError(t, err)

	outcome, err := r.Run(context.Background())
	require.ErrorIs(t, err, ErrBudgetExhausted)
	require.NotNil(t, outcome)
	require.Equal(t, ConditionBudgetExhausted, outcome.Condition)
	require.Equal(t, 2, outcome.Rounds)
	require.Len(t, outcome.Trace, 2)

	// The partial estimate is the midpoint of the surviving interval.
	last := outcome.Trace[1].Interval
	require.Equal(t, last.Midpoint(), outcome.Estimate)
}

func TestDPRunMechanismFailure(t *testing.T) {
	mechErr := errors.New("rng failure")
	cfg := dpConfig(t, 4, 2)
	cfg.Mechanism = failingMechanism{err: mechErr}

	r, err := NewDPRunner(cfg, mockParties([]uint64{1, 2, 3}))
	require.NoError(t, err)

	_, err = r.Run(context.Background())
	require.ErrorIs(t, err, mechErr)
}

func TestNewDPRunnerValidation(t *testing.T) {
	schedule, err := NewUniformSchedule(1.0, 4)
	require.NoError(t, err)
	parties := mockParties([]uint64{1, 2})

	_, err = NewDPRunner(DPConfig{
		Config:   Config{Domain: Domain{Bits: 4}, K: 1},
		Schedule: schedule,
	}, parties)
	require.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = NewDPRunner(DPConfig{
		Config:    Config{Domain: Domain{Bits: 4}, K: 1},
		Mechanism: zeroNoise{},
	}, parties)
	require.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = NewDPRunner(DPConfig{
		Config:    Config{Domain: Domain{Bits: 4}, K: 5},
		Mechanism: zeroNoise{},
		Schedule:  schedule,
	}, parties)
	require.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestDPRunContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := NewDPRunner(dpConfig(t, 8, 1), mockParties([]uint64{1, 2}))
	require.NoError(t, err)

	_, err = r.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
