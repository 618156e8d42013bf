package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/encryptogroup/dp-KRE/dataset"
	"github.com/encryptogroup/dp-KRE/metrics"
	"github.com/encryptogroup/dp-KRE/noise"
	"github.com/encryptogroup/dp-KRE/protocol"
)

// OrchestratorConfig contains deployment configuration.
type OrchestratorConfig struct {
	// BasePort is the first port; party i listens on BasePort + i.
	BasePort int

	// PartyTimeout bounds each comparison invocation.
	PartyTimeout time.Duration

	// Log is the structured logger. Defaults to slog.Default().
	Log *slog.Logger
}

// DeployedParty is one running party service.
type DeployedParty struct {
	ID       int
	Endpoint string
	server   *http.Server
}

// Orchestrator deploys a full star topology in one process: one HTTP
// server per party value, and coordinator runs driven against them over
// the HTTP transport. Intended for demos and end-to-end tests.
type Orchestrator struct {
	config  *OrchestratorConfig
	domain  protocol.Domain
	parties []*DeployedParty
	log     *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewOrchestrator creates an orchestrator for the given dataset.
func NewOrchestrator(config *OrchestratorConfig) *Orchestrator {
	ctx, cancel := context.WithCancel(context.Background())
	log := config.Log
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		config: config,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Deploy starts one party server per dataset value and waits until all of
// them answer their info endpoint.
func (o *Orchestrator) Deploy(ds *dataset.Dataset) error {
	o.domain = ds.Domain

	for i, value := range ds.Values {
		party, err := protocol.NewLocalParty(i, value, ds.Domain)
		if err != nil {
			return err
		}

		addr := fmt.Sprintf("127.0.0.1:%d", o.config.BasePort+i)
		handler := NewPartyHandler(party, ds.Domain, o.log.With("party", i))

		r := chi.NewRouter()
		r.Use(middleware.Recoverer)
		handler.RegisterRoutes(r)

		srv := &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		}

		deployed := &DeployedParty{ID: i, Endpoint: "http://" + addr, server: srv}
		o.parties = append(o.parties, deployed)

		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				o.log.Error("party server failed", "party", deployed.ID, "err", err)
			}
		}()
	}

	return o.waitReady()
}

// waitReady polls every party's info endpoint until it responds.
func (o *Orchestrator) waitReady() error {
	deadline := time.Now().Add(5 * time.Second)
	for _, p := range o.parties {
		for {
			resp, err := http.Get(p.Endpoint + "/party/info")
			if err == nil {
				resp.Body.Close()
				break
			}
			if time.Now().After(deadline) {
				return fmt.Errorf("party %d at %s did not become ready: %w", p.ID, p.Endpoint, err)
			}
			time.Sleep(20 * time.Millisecond)
		}
	}
	return nil
}

// Endpoints returns the deployed party base URLs in party order.
func (o *Orchestrator) Endpoints() []string {
	endpoints := make([]string, 0, len(o.parties))
	for _, p := range o.parties {
		endpoints = append(endpoints, p.Endpoint)
	}
	return endpoints
}

// RunLeaky executes the exact protocol against the deployed parties.
func (o *Orchestrator) RunLeaky(ctx context.Context, k int) (*protocol.Outcome, error) {
	p, err := protocol.New(o.runConfig(k), RemoteParties(o.Endpoints(), nil))
	if err != nil {
		return nil, err
	}
	return o.observeRun(ctx, p.Run)
}

// RunDP executes the differentially private protocol against the deployed
// parties at the given noise level.
func (o *Orchestrator) RunDP(ctx context.Context, k int, level noise.Level, seed uint64) (*protocol.Outcome, error) {
	rounds := int(o.domain.Bits)
	schedule, err := protocol.NewUniformSchedule(level.EpsilonTotal(rounds), rounds)
	if err != nil {
		return nil, err
	}
	runner, err := protocol.NewDPRunner(protocol.DPConfig{
		Config:    o.runConfig(k),
		Mechanism: noise.NewLaplace(seed),
		Schedule:  schedule,
	}, RemoteParties(o.Endpoints(), nil))
	if err != nil {
		return nil, err
	}
	return o.observeRun(ctx, runner.Run)
}

func (o *Orchestrator) runConfig(k int) protocol.Config {
	return protocol.Config{
		Domain:       o.domain,
		K:            k,
		PartyTimeout: o.config.PartyTimeout,
		Log:          o.log,
	}
}

func (o *Orchestrator) observeRun(ctx context.Context, run func(context.Context) (*protocol.Outcome, error)) (*protocol.Outcome, error) {
	outcome, err := run(ctx)
	if err != nil {
		return outcome, err
	}
	metrics.AddRoundsExecuted(outcome.Rounds)
	metrics.IncRunsCompleted()
	return outcome, nil
}

// Shutdown stops all party servers.
func (o *Orchestrator) Shutdown() {
	o.cancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, p := range o.parties {
		if err := p.server.Shutdown(shutdownCtx); err != nil {
			o.log.Error("party shutdown failed", "party", p.ID, "err", err)
		}
	}
}
