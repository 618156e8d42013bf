// Command coordinator runs one protocol execution against a set of party
// endpoints and prints the outcome as JSON.
//
// The leaky variant computes the exact k-th ranked value; the dp variant
// perturbs every round's count and outputs an approximation under the
// configured privacy budget.
//
// # Usage
//
//	go run ./cmd/coordinator --parties=http://localhost:9001,http://localhost:9002 \
//	    --statistic=median --bits=32 --variant=leaky
//	go run ./cmd/coordinator --parties=... --variant=dp --noise=high --mechanism=secure
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	cmdcommon "github.com/encryptogroup/dp-KRE/cmd/common"
	"github.com/encryptogroup/dp-KRE/common"
	"github.com/encryptogroup/dp-KRE/harness"
	"github.com/encryptogroup/dp-KRE/noise"
	"github.com/encryptogroup/dp-KRE/protocol"
	"github.com/encryptogroup/dp-KRE/services"
)

func main() {
	var (
		partiesFlag   = flag.String("parties", "", "comma-separated party base URLs")
		kFlag         = flag.Int("k", 0, "rank target in [1, n]")
		statisticFlag = flag.String("statistic", "", "named rank target: min|median|max")
		bits          = flag.Uint("bits", 32, "domain bit length L")
		variantFlag   = flag.String("variant", "leaky", "protocol variant: leaky|dp")
		noiseFlag     = flag.String("noise", "medium", "noise level for the dp variant: none|low|medium|high")
		epsilonFlag   = flag.Float64("epsilon", 0, "total epsilon budget (overrides --noise if positive)")
		mechanismFlag = flag.String("mechanism", "laplace", "noise mechanism: laplace|geometric|secure")
		seed          = flag.Uint64("seed", 1, "noise seed for seedable mechanisms")
		timeout       = flag.Duration("timeout", 5*time.Second, "per-party invocation timeout")
		withTrace     = flag.Bool("trace", false, "include the per-round trace in the output")
		debug         = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	log := common.SetupLogger(&common.LoggerOpts{Debug: *debug, Service: "coordinator"})

	endpoints, err := cmdcommon.ParseEndpoints(*partiesFlag)
	if err != nil {
		fatal(err)
	}
	k, err := cmdcommon.ResolveK(*kFlag, *statisticFlag, len(endpoints))
	if err != nil {
		fatal(err)
	}
	variant, err := harness.ParseVariant(*variantFlag)
	if err != nil {
		fatal(err)
	}

	cfg := protocol.Config{
		Domain:       protocol.Domain{Bits: uint8(*bits)},
		K:            k,
		PartyTimeout: *timeout,
		Log:          log,
	}
	parties := services.RemoteParties(endpoints, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		cancel()
	}()

	var outcome *protocol.Outcome
	switch variant {
	case harness.VariantLeaky:
		p, err := protocol.New(cfg, parties)
		if err != nil {
			fatal(err)
		}
		outcome, err = p.Run(ctx)
		if err != nil {
			fatal(err)
		}
	case harness.VariantDP:
		outcome, err = runDP(ctx, cfg, parties, *noiseFlag, *epsilonFlag, *mechanismFlag, *seed)
		if err != nil {
			if outcome == nil {
				fatal(err)
			}
			// A best-effort partial result is still printed, annotated
			// with its condition.
			log.Warn("run ended early", "err", err, "condition", outcome.Condition)
		}
	}

	if !*withTrace {
		outcome.Trace = nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(outcome)
}

func runDP(ctx context.Context, cfg protocol.Config, parties []protocol.Party, noiseLevel string, epsilonTotal float64, mechanismName string, seed uint64) (*protocol.Outcome, error) {
	rounds := int(cfg.Domain.Bits)

	if epsilonTotal <= 0 {
		level, err := noise.ParseLevel(noiseLevel)
		if err != nil {
			return nil, err
		}
		epsilonTotal = level.EpsilonTotal(rounds)
	}
	schedule, err := protocol.NewUniformSchedule(epsilonTotal, rounds)
	if err != nil {
		return nil, err
	}

	var mechanism protocol.NoiseMechanism
	switch mechanismName {
	case "laplace":
		mechanism = noise.NewLaplace(seed)
	case "geometric":
		mechanism = noise.NewTwoSidedGeometric(seed)
	case "secure":
		mechanism = noise.NewSecureLaplace()
	default:
		return nil, fmt.Errorf("unknown noise mechanism %q", mechanismName)
	}

	runner, err := protocol.NewDPRunner(protocol.DPConfig{
		Config:    cfg,
		Mechanism: mechanism,
		Schedule:  schedule,
	}, parties)
	if err != nil {
		return nil, err
	}
	return runner.Run(ctx)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
