// Package harness drives repeated protocol executions over a dataset and
// records error statistics. It observes only final outputs plus ground
// truth; downstream aggregation (histograms, noise-vs-error scatter)
// consumes the emitted trial records as opaque data.
package harness

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/encryptogroup/dp-KRE/dataset"
	"github.com/encryptogroup/dp-KRE/noise"
	"github.com/encryptogroup/dp-KRE/protocol"
)

// Trial records one protocol execution: the ground truth, the estimate,
// and enough context to group trials by statistic and noise level.
type Trial struct {
	Statistic dataset.Statistic  `json:"statistic"`
	Level     noise.Level        `json:"noise_level"`
	K         int                `json:"k"`
	TrueValue uint64             `json:"true_value"`
	Estimate  uint64             `json:"estimate"`
	Rounds    int                `json:"rounds"`
	Condition protocol.Condition `json:"condition,omitempty"`
	Elapsed   time.Duration      `json:"elapsed_ns"`
}

// Error returns the signed estimation error, estimate minus true value.
func (t Trial) Error() int64 {
	return int64(t.Estimate) - int64(t.TrueValue)
}

// Config parameterizes an accuracy run.
type Config struct {
	// Dataset supplies the party values. Required.
	Dataset *dataset.Dataset

	// Statistics are the rank targets to evaluate. Defaults to
	// min, median and max.
	Statistics []dataset.Statistic

	// Levels are the noise presets to evaluate. Defaults to low, medium
	// and high.
	Levels []noise.Level

	// Repetitions is the number of independent protocol executions per
	// statistic per level. Each repetition draws from a freshly seeded
	// noise source.
	Repetitions int

	// Seed is the base seed; repetition seeds are derived from it.
	Seed uint64

	// PartyTimeout bounds each party invocation inside a run.
	PartyTimeout time.Duration

	// Log is the structured logger. Defaults to slog.Default().
	Log *slog.Logger
}

// AccuracyHarness executes many independent DP protocol runs and collects
// (true value, estimate) pairs.
type AccuracyHarness struct {
	cfg Config
	log *slog.Logger
}

// New creates a harness. Configuration errors are reported before any run
// starts.
func New(cfg Config) (*AccuracyHarness, error) {
	if cfg.Dataset == nil {
		return nil, fmt.Errorf("%w: dataset is required", protocol.ErrInvalidConfiguration)
	}
	if cfg.Repetitions < 1 {
		return nil, fmt.Errorf("%w: repetitions %d must be positive", protocol.ErrInvalidConfiguration, cfg.Repetitions)
	}
	if len(cfg.Statistics) == 0 {
		cfg.Statistics = dataset.Statistics
	}
	if len(cfg.Levels) == 0 {
		cfg.Levels = noise.Levels
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	return &AccuracyHarness{cfg: cfg, log: cfg.Log}, nil
}

// Run executes all configured trials sequentially and returns their
// records. Each trial is an independent, side-effect-free protocol run
// over its own party set and noise source.
func (h *AccuracyHarness) Run(ctx context.Context) ([]Trial, error) {
	ds := h.cfg.Dataset
	trials := make([]Trial, 0, len(h.cfg.Statistics)*len(h.cfg.Levels)*h.cfg.Repetitions)
	seed := h.cfg.Seed

	for _, stat := range h.cfg.Statistics {
		k := stat.ToK(ds.N())
		trueValue, err := ds.TrueKth(k)
		if err != nil {
			return nil, err
		}

		for _, level := range h.cfg.Levels {
			for rep := 0; rep < h.cfg.Repetitions; rep++ {
				seed++
				trial, err := h.runTrial(ctx, stat, level, k, trueValue, seed)
				if err != nil {
					return nil, fmt.Errorf("statistic %s level %s repetition %d: %w", stat, level, rep, err)
				}
				trials = append(trials, trial)
			}
			h.log.Info("level complete", "statistic", stat, "level", level, "repetitions", h.cfg.Repetitions)
		}
	}
	return trials, nil
}

func (h *AccuracyHarness) runTrial(ctx context.Context, stat dataset.Statistic, level noise.Level, k int, trueValue, seed uint64) (Trial, error) {
	ds := h.cfg.Dataset
	parties, err := ds.Parties()
	if err != nil {
		return Trial{}, err
	}

	rounds := int(ds.Domain.Bits)
	schedule, err := protocol.NewUniformSchedule(level.EpsilonTotal(rounds), rounds)
	if err != nil {
		return Trial{}, err
	}

	runner, err := protocol.NewDPRunner(protocol.DPConfig{
		Config: protocol.Config{
			Domain:       ds.Domain,
			K:            k,
			PartyTimeout: h.cfg.PartyTimeout,
			Log:          h.log,
		},
		Mechanism: noise.NewLaplace(seed),
		Schedule:  schedule,
	}, parties)
	if err != nil {
		return Trial{}, err
	}

	start := time.Now()
	outcome, err := runner.Run(ctx)
	if err != nil {
		return Trial{}, err
	}
	return Trial{
		Statistic: stat,
		Level:     level,
		K:         k,
		TrueValue: trueValue,
		Estimate:  outcome.Estimate,
		Rounds:    outcome.Rounds,
		Condition: outcome.Condition,
		Elapsed:   time.Since(start),
	}, nil
}
