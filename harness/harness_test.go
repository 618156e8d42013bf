package harness

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/encryptogroup/dp-KRE/dataset"
	"github.com/encryptogroup/dp-KRE/noise"
	"github.com/encryptogroup/dp-KRE/protocol"
	"github.com/encryptogroup/dp-KRE/testutil"
)

func TestNewValidation(t *testing.T) {
	ds := testutil.NewTestDataset()

	_, err := New(Config{Repetitions: 1})
	require.ErrorIs(t, err, protocol.ErrInvalidConfiguration)

	_, err = New(Config{Dataset: ds})
	require.ErrorIs(t, err, protocol.ErrInvalidConfiguration)

	h, err := New(Config{Dataset: ds, Repetitions: 1})
	require.NoError(t, err)
	require.NotNil(t, h)
}

func TestRunTrialCount(t *testing.T) {
	h, err := New(Config{
		Dataset:     testutil.NewTestDataset(),
		Statistics:  []dataset.Statistic{dataset.Minimum, dataset.Median},
		Levels:      []noise.Level{noise.LevelLow, noise.LevelHigh},
		Repetitions: 3,
		Seed:        1,
	})
	require.NoError(t, err)

	trials, err := h.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, trials, 2*2*3)

	for _, trial := range trials {
		require.Equal(t, 4, trial.Rounds)
		require.NotZero(t, trial.Elapsed)
	}
}

func TestRunNoNoiseReproducesGroundTruth(t *testing.T) {
	ds := testutil.NewTestDataset()
	h, err := New(Config{
		Dataset:     ds,
		Statistics:  dataset.Statistics,
		Levels:      []noise.Level{noise.LevelNone},
		Repetitions: 2,
		Seed:        1,
	})
	require.NoError(t, err)

	trials, err := h.Run(context.Background())
	require.NoError(t, err)

	for _, trial := range trials {
		require.Equal(t, trial.TrueValue, trial.Estimate,
			"statistic %s", trial.Statistic)
		require.Zero(t, trial.Error())
	}
}

func TestRunHighNoiseErrorDistribution(t *testing.T) {
	if testing.Short() {
		t.Skip("statistical test")
	}

	ds := testutil.NewRandomDataset(200, 8, 17)
	const reps = 400
	h, err := New(Config{
		Dataset:     ds,
		Statistics:  []dataset.Statistic{dataset.Median},
		Levels:      []noise.Level{noise.LevelHigh},
		Repetitions: reps,
		Seed:        1,
	})
	require.NoError(t, err)

	trials, err := h.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, trials, reps)

	var sum, sumAbs float64
	spread := false
	for _, trial := range trials {
		e := float64(trial.Error())
		sum += e
		sumAbs += math.Abs(e)
		if trial.Error() != 0 {
			spread = true
		}
	}

	// High noise must actually perturb results, yet the error should be
	// roughly centered. Bounds are generous: this guards against gross
	// calibration bugs, not statistical drift.
	assert.True(t, spread, "high noise produced no estimation error at all")
	assert.InDelta(t, 0.0, sum/reps, 10.0)
	assert.Less(t, sumAbs/reps, 64.0)
}

func TestRunSeedsAreIndependentAcrossTrials(t *testing.T) {
	ds := testutil.NewRandomDataset(100, 8, 3)
	h, err := New(Config{
		Dataset:     ds,
		Statistics:  []dataset.Statistic{dataset.Median},
		Levels:      []noise.Level{noise.LevelHigh},
		Repetitions: 30,
		Seed:        1,
	})
	require.NoError(t, err)

	trials, err := h.Run(context.Background())
	require.NoError(t, err)

	// With fresh noise per trial the estimates cannot all coincide.
	distinct := map[uint64]bool{}
	for _, trial := range trials {
		distinct[trial.Estimate] = true
	}
	assert.Greater(t, len(distinct), 1)
}

func TestRunIsReproducibleForSeed(t *testing.T) {
	run := func() []Trial {
		h, err := New(Config{
			Dataset:     testutil.NewRandomDataset(50, 8, 5),
			Statistics:  []dataset.Statistic{dataset.Median},
			Levels:      []noise.Level{noise.LevelMedium},
			Repetitions: 10,
			Seed:        99,
		})
		require.NoError(t, err)
		trials, err := h.Run(context.Background())
		require.NoError(t, err)
		return trials
	}

	a := run()
	b := run()
	require.Equal(t, len(a), len(b))
	for i := range a {
		require.Equal(t, a[i].Estimate, b[i].Estimate, "trial %d", i)
	}
}

func TestBenchmarkVariants(t *testing.T) {
	ds := testutil.NewTestDataset()
	k := dataset.Median.ToK(ds.N())

	leaky, err := Benchmark(context.Background(), ds, k, VariantLeaky, noise.LevelNone, 1)
	require.NoError(t, err)
	require.Equal(t, VariantLeaky, leaky.Variant)
	require.Equal(t, uint64(3), leaky.Estimate)
	require.Equal(t, 4, leaky.Rounds)

	dp, err := Benchmark(context.Background(), ds, k, VariantDP, noise.LevelNone, 1)
	require.NoError(t, err)
	require.Equal(t, VariantDP, dp.Variant)
	require.Equal(t, uint64(3), dp.Estimate)
}

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant("leaky")
	require.NoError(t, err)
	require.Equal(t, VariantLeaky, v)

	v, err = ParseVariant("dp")
	require.NoError(t, err)
	require.Equal(t, VariantDP, v)

	_, err = ParseVariant("hybrid")
	require.Error(t, err)
}
