// Command party serves a single party's private value over HTTP.
//
// The party answers comparison requests from a coordinator with a single
// bit per invocation; the value itself never leaves the process. The
// server includes the standard health endpoints and an optional metrics
// listener.
//
// # Usage
//
//	go run ./cmd/party --addr=:9001 --value=42 --bits=32
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/encryptogroup/dp-KRE/api/httpserver"
	"github.com/encryptogroup/dp-KRE/common"
	"github.com/encryptogroup/dp-KRE/protocol"
	"github.com/encryptogroup/dp-KRE/services"
)

func main() {
	var (
		addr        = flag.String("addr", ":9001", "HTTP listen address")
		metricsAddr = flag.String("metrics-addr", "", "metrics listen address (disabled if empty)")
		id          = flag.Int("id", 0, "party ordinal identifier")
		value       = flag.Uint64("value", 0, "the party's private value")
		bits        = flag.Uint("bits", 32, "domain bit length L")
		enablePprof = flag.Bool("pprof", false, "enable pprof debugging API")
		debug       = flag.Bool("debug", false, "enable debug logging")
		logJSON     = flag.Bool("log-json", false, "log in JSON format")
	)
	flag.Parse()

	log := common.SetupLogger(&common.LoggerOpts{Debug: *debug, JSON: *logJSON, Service: "party"})

	domain := protocol.Domain{Bits: uint8(*bits)}
	party, err := protocol.NewLocalParty(*id, *value, domain)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid party configuration: %v\n", err)
		os.Exit(1)
	}

	handler := services.NewPartyHandler(party, domain, log)
	srv, err := httpserver.New(&httpserver.HTTPServerConfig{
		ListenAddr:               *addr,
		MetricsAddr:              *metricsAddr,
		EnablePprof:              *enablePprof,
		Log:                      log,
		DrainDuration:            5 * time.Second,
		GracefulShutdownDuration: 10 * time.Second,
		ReadTimeout:              15 * time.Second,
		WriteTimeout:             15 * time.Second,
	}, handler)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Create server error: %v\n", err)
		os.Exit(1)
	}

	log.Info("party listening", "addr", *addr, "id", *id, "bits", *bits)
	srv.RunInBackground()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down party")
	srv.Shutdown()
}
