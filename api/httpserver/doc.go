// Package httpserver provides a reusable HTTP server with common
// functionality for the deployed protocol services.
//
// The package implements a base server with standard health endpoints,
// graceful shutdown, optional metrics, and flexible routing, so the party,
// coordinator and results services share one server lifecycle instead of
// each reimplementing it.
//
// # Health and Diagnostics
//
// All servers built on BaseServer automatically include:
//
//   - Liveness check (/livez)
//   - Readiness check (/readyz)
//   - Drain control for load balancers (/drain, /undrain)
//   - Optional Prometheus-compatible metrics on a separate listener
//   - Optional pprof debugging endpoints
//
// # Usage
//
//	handler := services.NewPartyHandler(party, log)
//	srv, err := httpserver.New(cfg, handler)
//	if err != nil {
//	    return err
//	}
//	srv.RunInBackground()
//	defer srv.Shutdown()
//
// Components plug in by implementing the RouteRegistrar interface.
package httpserver
