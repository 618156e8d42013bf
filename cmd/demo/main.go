// Command demo deploys a complete star topology in a single process: one
// HTTP party service per input value plus a coordinator driving them over
// the loopback transport. It then runs both protocol variants on the same
// inputs and prints the outcomes side by side.
//
// # Usage
//
//	go run ./cmd/demo --values=3,1,4,1,5,9,2,6 --bits=4 --statistic=median
//	go run ./cmd/demo --values=3,1,4,1,5,9,2,6 --bits=4 --statistic=median --noise=high
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	cmdcommon "github.com/encryptogroup/dp-KRE/cmd/common"
	"github.com/encryptogroup/dp-KRE/common"
	"github.com/encryptogroup/dp-KRE/dataset"
	"github.com/encryptogroup/dp-KRE/noise"
	"github.com/encryptogroup/dp-KRE/services"
)

func main() {
	var (
		valuesFlag    = flag.String("values", "", "comma-separated party values (required)")
		bits          = flag.Uint("bits", 16, "domain bit length L")
		statisticFlag = flag.String("statistic", "median", "statistic to compute: min, median or max")
		noiseFlag     = flag.String("noise", "medium", "noise level for the DP variant")
		basePort      = flag.Int("base-port", 9200, "first party port; party i listens on base-port+i")
		seed          = flag.Uint64("seed", 1, "noise seed for the DP variant")
		timeout       = flag.Duration("timeout", 5*time.Second, "per-party comparison timeout")
		debug         = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	log := common.SetupLogger(&common.LoggerOpts{Debug: *debug, Service: "demo"})

	values, err := cmdcommon.ParseValues(*valuesFlag)
	if err != nil {
		fatal(err)
	}
	ds, err := dataset.New(values, uint8(*bits))
	if err != nil {
		fatal(err)
	}
	k, err := cmdcommon.ResolveK(0, *statisticFlag, len(values))
	if err != nil {
		fatal(err)
	}
	level, err := noise.ParseLevel(*noiseFlag)
	if err != nil {
		fatal(err)
	}

	orch := services.NewOrchestrator(&services.OrchestratorConfig{
		BasePort:     *basePort,
		PartyTimeout: *timeout,
		Log:          log,
	})
	if err := orch.Deploy(ds); err != nil {
		fatal(err)
	}
	defer orch.Shutdown()
	log.Info("parties deployed", "count", len(values), "endpoints", orch.Endpoints())

	ctx := context.Background()
	trueValue, err := ds.TrueKth(k)
	if err != nil {
		fatal(err)
	}

	leaky, err := orch.RunLeaky(ctx, k)
	if err != nil {
		fatal(err)
	}

	dp, err := orch.RunDP(ctx, k, level, *seed)
	if err != nil && dp == nil {
		fatal(err)
	}
	if err != nil {
		log.Warn("dp run ended early", "err", err, "condition", dp.Condition)
	}

	report := map[string]any{
		"statistic":  *statisticFlag,
		"k":          k,
		"n":          len(values),
		"true_value": trueValue,
		"leaky":      leaky,
		"dp":         dp,
		"noise":      level,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
