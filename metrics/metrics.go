// Package metrics exposes protocol counters and a Prometheus-compatible
// metrics endpoint for the HTTP-deployed services.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/VictoriaMetrics/metrics"
)

var (
	roundsExecuted    = metrics.NewCounter("kre_rounds_executed_total")
	comparisonsServed = metrics.NewCounter("kre_comparisons_served_total")
	partyTimeouts     = metrics.NewCounter("kre_party_timeouts_total")
	runsCompleted     = metrics.NewCounter("kre_runs_completed_total")
)

// AddRoundsExecuted counts completed protocol rounds.
func AddRoundsExecuted(n int) { roundsExecuted.Add(n) }

// IncComparisonsServed counts a comparison answered by a party endpoint.
func IncComparisonsServed() { comparisonsServed.Inc() }

// IncPartyTimeouts counts a party invocation that missed its timeout.
func IncPartyTimeouts() { partyTimeouts.Inc() }

// IncRunsCompleted counts a finished protocol run.
func IncRunsCompleted() { runsCompleted.Inc() }

// MetricsServer serves the metrics endpoint on its own listener.
type MetricsServer struct {
	srv *http.Server
}

// New creates a metrics server for the given listen address. The instance
// label distinguishes services sharing a metrics backend.
func New(instance, listenAddr string) (*MetricsServer, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Metrics-Instance", instance)
		metrics.WritePrometheus(w, true)
	})

	return &MetricsServer{
		srv: &http.Server{
			Addr:         listenAddr,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		},
	}, nil
}

// ListenAndServe blocks serving the metrics endpoint.
func (m *MetricsServer) ListenAndServe() error {
	if m.srv.Addr == "" {
		return fmt.Errorf("metrics server has no listen address")
	}
	return m.srv.ListenAndServe()
}

// Shutdown gracefully stops the metrics server.
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}
