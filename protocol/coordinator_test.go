package protocol

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func mockParties(values []uint64) []Party {
	parties := make([]Party, len(values))
	for i, v := range values {
		parties[i] = NewMockParty(v)
	}
	return parties
}

func trueKth(values []uint64, k int) uint64 {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return sorted[k-1]
}

func TestRunWorkedExample(t *testing.T) {
	values := []uint64{3, 1, 4, 1, 5, 9, 2, 6}
	p, err := New(Config{Domain: Domain{Bits: 4}, K: 4}, mockParties(values))
	require.NoError(t, err)

	outcome, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(3), outcome.Estimate)
	require.Equal(t, 4, outcome.Rounds)
	require.Equal(t, ConditionNone, outcome.Condition)

	// Expected count of values >= threshold per round.
	require.Len(t, outcome.Trace, 4)
	require.Equal(t, uint64(8), outcome.Trace[0].Threshold)
	require.Equal(t, 1, outcome.Trace[0].RawCount)
	require.Equal(t, uint64(4), outcome.Trace[1].Threshold)
	require.Equal(t, 4, outcome.Trace[1].RawCount)
	require.Equal(t, uint64(2), outcome.Trace[2].Threshold)
	require.Equal(t, 6, outcome.Trace[2].RawCount)
	require.Equal(t, uint64(3), outcome.Trace[3].Threshold)
	require.Equal(t, 5, outcome.Trace[3].RawCount)
}

func TestRunExactForAllRanks(t *testing.T) {
	values := []uint64{13, 0, 7, 7, 255, 42, 42, 1, 200, 99}
	for k := 1; k <= len(values); k++ {
		p, err := New(Config{Domain: Domain{Bits: 8}, K: k}, mockParties(values))
		require.NoError(t, err)

		outcome, err := p.Run(context.Background())
		require.NoError(t, err)
		require.Equal(t, trueKth(values, k), outcome.Estimate, "k=%d", k)
		require.Equal(t, 8, outcome.Rounds, "k=%d", k)
	}
}

func TestRunAllValuesEqual(t *testing.T) {
	values := []uint64{5, 5, 5, 5}
	for k := 1; k <= len(values); k++ {
		p, err := New(Config{Domain: Domain{Bits: 4}, K: k}, mockParties(values))
		require.NoError(t, err)

		outcome, err := p.Run(context.Background())
		require.NoError(t, err)
		require.Equal(t, uint64(5), outcome.Estimate, "k=%d", k)
	}
}

func TestRunDomainBoundaries(t *testing.T) {
	// Extremes of the domain, including value 0 and the max value.
	values := []uint64{0, 0, 15, 15}
	p, err := New(Config{Domain: Domain{Bits: 4}, K: 1}, mockParties(values))
	require.NoError(t, err)
	outcome, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(0), outcome.Estimate)

	p, err = New(Config{Domain: Domain{Bits: 4}, K: 4}, mockParties(values))
	require.NoError(t, err)
	outcome, err = p.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(15), outcome.Estimate)
}

func TestRunSingleParty(t *testing.T) {
	p, err := New(Config{Domain: Domain{Bits: 16}, K: 1}, mockParties([]uint64{12345}))
	require.NoError(t, err)

	outcome, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(12345), outcome.Estimate)
	require.Equal(t, 16, outcome.Rounds)
}

func TestRunIntervalInvariants(t *testing.T) {
	values := []uint64{3, 1, 4, 1, 5, 9, 2, 6}
	p, err := New(Config{Domain: Domain{Bits: 4}, K: 4}, mockParties(values))
	require.NoError(t, err)

	outcome, err := p.Run(context.Background())
	require.NoError(t, err)

	target := trueKth(values, 4)
	prev := p.cfg.Domain.FullInterval()
	for _, round := range outcome.Trace {
		cur := round.Interval
		require.LessOrEqual(t, cur.Low, cur.High, "round %d", round.Index)
		// The interval shrinks strictly and never loses the target.
		require.Less(t, cur.Span(), prev.Span(), "round %d", round.Index)
		require.GreaterOrEqual(t, target, cur.Low, "round %d", round.Index)
		require.LessOrEqual(t, target, cur.High, "round %d", round.Index)
		prev = cur
	}
	require.True(t, prev.Settled())
}

func TestNewInvalidConfiguration(t *testing.T) {
	parties := mockParties([]uint64{1, 2, 3})

	cases := []struct {
		name    string
		cfg     Config
		parties []Party
	}{
		{"zero bits", Config{Domain: Domain{Bits: 0}, K: 1}, parties},
		{"bits too large", Config{Domain: Domain{Bits: 65}, K: 1}, parties},
		{"k zero", Config{Domain: Domain{Bits: 4}, K: 0}, parties},
		{"k above n", Config{Domain: Domain{Bits: 4}, K: 4}, parties},
		{"no parties", Config{Domain: Domain{Bits: 4}, K: 1}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.cfg, tc.parties)
			require.ErrorIs(t, err, ErrInvalidConfiguration)
		})
	}
}

func TestRunAbsentPartyIsRecovered(t *testing.T) {
	values := []uint64{3, 1, 4, 1, 5, 9, 2, 6}
	parties := mockParties(values)
	parties[5] = NewMockParty(0).WithRespondFunc(
		func(ctx context.Context, round int, threshold uint64) (bool, error) {
			return false, errors.New("connection refused")
		})

	p, err := New(Config{Domain: Domain{Bits: 4}, K: 4}, parties)
	require.NoError(t, err)

	outcome, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, ConditionPartiesAbsent, outcome.Condition)
	for _, round := range outcome.Trace {
		require.Equal(t, []int{5}, round.Absent)
		require.Equal(t, 7, round.Responded)
	}
}

func TestRunAllPartiesAbsent(t *testing.T) {
	parties := []Party{
		NewMockParty(0).WithRespondFunc(func(ctx context.Context, round int, threshold uint64) (bool, error) {
			return false, errors.New("down")
		}),
		NewMockParty(0).WithRespondFunc(func(ctx context.Context, round int, threshold uint64) (bool, error) {
			return false, errors.New("down")
		}),
	}

	p, err := New(Config{Domain: Domain{Bits: 4}, K: 1}, parties)
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	require.ErrorIs(t, err, ErrPartyUnavailable)
}

func TestRunSlowPartyTimesOut(t *testing.T) {
	values := []uint64{3, 1, 4, 1}
	parties := mockParties(values)
	parties[0] = NewMockParty(0).WithRespondFunc(
		func(ctx context.Context, round int, threshold uint64) (bool, error) {
			<-ctx.Done()
			return false, ctx.Err()
		})

	p, err := New(Config{Domain: Domain{Bits: 4}, K: 2, PartyTimeout: 20 * time.Millisecond}, parties)
	require.NoError(t, err)

	outcome, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, ConditionPartiesAbsent, outcome.Condition)
	// Remaining values are 1, 4, 1; the rank-2 element among them is 1.
	require.Equal(t, uint64(1), outcome.Estimate)
}

func TestRunContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p, err := New(Config{Domain: Domain{Bits: 8}, K: 1}, mockParties([]uint64{1, 2}))
	require.NoError(t, err)

	_, err = p.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestThresholdCeilMidpoint(t *testing.T) {
	cases := []struct {
		interval  SearchInterval
		threshold uint64
	}{
		{SearchInterval{Low: 0, High: 15}, 8},
		{SearchInterval{Low: 0, High: 7}, 4},
		{SearchInterval{Low: 0, High: 3}, 2},
		{SearchInterval{Low: 2, High: 3}, 3},
		{SearchInterval{Low: 0, High: 1}, 1},
		{SearchInterval{Low: 0, High: ^uint64(0)}, 1 << 63},
	}
	for _, tc := range cases {
		require.Equal(t, tc.threshold, tc.interval.Threshold(), "interval %+v", tc.interval)
		if !tc.interval.Settled() {
			// Both branch targets stay inside the interval.
			require.Greater(t, tc.interval.Threshold(), tc.interval.Low)
			require.LessOrEqual(t, tc.interval.Threshold(), tc.interval.High)
		}
	}
}

func TestFullWidthDomainRun(t *testing.T) {
	values := []uint64{0, 1, ^uint64(0), 1 << 40}
	p, err := New(Config{Domain: Domain{Bits: 64}, K: 4}, mockParties(values))
	require.NoError(t, err)

	outcome, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, ^uint64(0), outcome.Estimate)
	require.Equal(t, 64, outcome.Rounds)
}

func TestLocalPartyRejectsOutOfDomainValue(t *testing.T) {
	_, err := NewLocalParty(0, 16, Domain{Bits: 4})
	require.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestLocalPartyComparison(t *testing.T) {
	party, err := NewLocalParty(0, 7, Domain{Bits: 4})
	require.NoError(t, err)

	bit, err := party.RespondToComparison(context.Background(), 0, 7)
	require.NoError(t, err)
	require.True(t, bit)

	bit, err = party.RespondToComparison(context.Background(), 0, 8)
	require.NoError(t, err)
	require.False(t, bit)
}
