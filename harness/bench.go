package harness

import (
	"context"
	"fmt"
	"time"

	"github.com/encryptogroup/dp-KRE/dataset"
	"github.com/encryptogroup/dp-KRE/noise"
	"github.com/encryptogroup/dp-KRE/protocol"
)

// Variant selects which protocol the benchmark exercises.
type Variant string

const (
	VariantLeaky Variant = "leaky"
	VariantDP    Variant = "dp"
)

// ParseVariant converts a string into a Variant.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case VariantLeaky, VariantDP:
		return Variant(s), nil
	}
	return "", fmt.Errorf("unknown protocol variant %q", s)
}

// BenchmarkResult reports the cost of one protocol execution.
type BenchmarkResult struct {
	Variant  Variant       `json:"variant"`
	K        int           `json:"k"`
	Rounds   int           `json:"rounds"`
	Elapsed  time.Duration `json:"elapsed_ns"`
	Estimate uint64        `json:"estimate"`
}

// Benchmark runs a single execution of the chosen variant over the
// dataset and reports elapsed rounds and wall-clock duration, for
// comparing the two variants on identical inputs.
func Benchmark(ctx context.Context, ds *dataset.Dataset, k int, variant Variant, level noise.Level, seed uint64) (*BenchmarkResult, error) {
	cfg := protocol.Config{Domain: ds.Domain, K: k}
	parties, err := ds.Parties()
	if err != nil {
		return nil, err
	}

	var run func(context.Context) (*protocol.Outcome, error)
	switch variant {
	case VariantLeaky:
		p, err := protocol.New(cfg, parties)
		if err != nil {
			return nil, err
		}
		run = p.Run
	case VariantDP:
		rounds := int(ds.Domain.Bits)
		schedule, err := protocol.NewUniformSchedule(level.EpsilonTotal(rounds), rounds)
		if err != nil {
			return nil, err
		}
		runner, err := protocol.NewDPRunner(protocol.DPConfig{
			Config:    cfg,
			Mechanism: noise.NewLaplace(seed),
			Schedule:  schedule,
		}, parties)
		if err != nil {
			return nil, err
		}
		run = runner.Run
	default:
		return nil, fmt.Errorf("unknown protocol variant %q", variant)
	}

	start := time.Now()
	outcome, err := run(ctx)
	if err != nil {
		return nil, err
	}
	return &BenchmarkResult{
		Variant:  variant,
		K:        k,
		Rounds:   outcome.Rounds,
		Elapsed:  time.Since(start),
		Estimate: outcome.Estimate,
	}, nil
}
