// Command accuracy runs the accuracy harness over a synthetic dataset and
// records (true value, estimate) pairs per noise level per statistic.
//
// Trial records go to stdout as JSON lines by default, or to PostgreSQL
// with --postgres-dsn. With --serve the command additionally exposes the
// collected records over HTTP for plotting dashboards.
//
// # Usage
//
//	go run ./cmd/accuracy --n=1000 --bits=16 --reps=100
//	go run ./cmd/accuracy --n=1000 --bits=16 --reps=100 --levels=high --statistics=median
//	go run ./cmd/accuracy --n=1000 --bits=16 --reps=100 --serve=:8090
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/encryptogroup/dp-KRE/api/httpserver"
	"github.com/encryptogroup/dp-KRE/common"
	"github.com/encryptogroup/dp-KRE/dataset"
	"github.com/encryptogroup/dp-KRE/harness"
	"github.com/encryptogroup/dp-KRE/noise"
	"github.com/encryptogroup/dp-KRE/services"
)

func main() {
	var (
		n              = flag.Int("n", 1000, "number of parties (one value each)")
		bits           = flag.Uint("bits", 16, "domain bit length L")
		reps           = flag.Int("reps", 100, "repetitions per statistic per noise level")
		levelsFlag     = flag.String("levels", "low,medium,high", "comma-separated noise levels")
		statisticsFlag = flag.String("statistics", "min,median,max", "comma-separated statistics")
		seed           = flag.Uint64("seed", 1, "base seed for dataset and noise")
		postgresDSN    = flag.String("postgres-dsn", "", "PostgreSQL connection string (JSON lines to stdout if empty)")
		serveAddr      = flag.String("serve", "", "serve collected results on this address after the run")
		debug          = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	log := common.SetupLogger(&common.LoggerOpts{Debug: *debug, Service: "accuracy"})

	levels, err := parseLevels(*levelsFlag)
	if err != nil {
		fatal(err)
	}
	statistics, err := parseStatistics(*statisticsFlag)
	if err != nil {
		fatal(err)
	}

	ds, err := dataset.Sample(*n, uint8(*bits), *seed)
	if err != nil {
		fatal(err)
	}

	h, err := harness.New(harness.Config{
		Dataset:     ds,
		Statistics:  statistics,
		Levels:      levels,
		Repetitions: *reps,
		Seed:        *seed,
		Log:         log,
	})
	if err != nil {
		fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		cancel()
	}()

	start := time.Now()
	trials, err := h.Run(ctx)
	if err != nil {
		fatal(err)
	}
	log.Info("accuracy run complete", "trials", len(trials), "elapsed", time.Since(start))

	var store services.TrialStore
	if *postgresDSN != "" {
		pg, err := services.NewPostgresStore(*postgresDSN)
		if err != nil {
			fatal(err)
		}
		defer pg.Close()
		store = pg
	} else {
		store = services.NewMemoryStore()
		enc := json.NewEncoder(os.Stdout)
		for _, trial := range trials {
			enc.Encode(trial)
		}
	}
	if err := store.SaveTrials(ctx, trials); err != nil {
		fatal(err)
	}

	if *serveAddr == "" {
		return
	}

	handler := services.NewResultsHandler(store, log)
	srv, err := httpserver.New(&httpserver.HTTPServerConfig{
		ListenAddr:               *serveAddr,
		Log:                      log,
		DrainDuration:            time.Second,
		GracefulShutdownDuration: 5 * time.Second,
		ReadTimeout:              15 * time.Second,
		WriteTimeout:             15 * time.Second,
	}, handler)
	if err != nil {
		fatal(err)
	}

	log.Info("serving results", "addr", *serveAddr)
	srv.RunInBackground()
	<-ctx.Done()
	srv.Shutdown()
}

func parseLevels(s string) ([]noise.Level, error) {
	var levels []noise.Level
	for _, part := range strings.Split(s, ",") {
		level, err := noise.ParseLevel(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		levels = append(levels, level)
	}
	return levels, nil
}

func parseStatistics(s string) ([]dataset.Statistic, error) {
	var statistics []dataset.Statistic
	for _, part := range strings.Split(s, ",") {
		stat, err := dataset.ParseStatistic(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		statistics = append(statistics, stat)
	}
	return statistics, nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
