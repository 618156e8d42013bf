// Package cmd provides the CLI commands for the k-th ranked element
// services.
//
// # Commands
//
// party: Serves a single party's private value over HTTP. Only the
// comparison bit ever leaves the process.
//
//	go run ./cmd/party --addr=:9001 --value=42 --bits=32
//
// coordinator: Runs a protocol execution against party endpoints and
// prints the outcome as JSON.
//
//	go run ./cmd/coordinator --parties=http://localhost:9001,http://localhost:9002 \
//	    --statistic=median --bits=32 --variant=leaky
//	go run ./cmd/coordinator --parties=... --variant=dp --noise=medium
//
// accuracy: Runs the accuracy harness over a synthetic dataset, emitting
// trial records as JSON lines or persisting them to PostgreSQL, and can
// serve the collected results for plotting dashboards.
//
//	go run ./cmd/accuracy --n=1000 --bits=16 --reps=100
//	go run ./cmd/accuracy --n=1000 --bits=16 --reps=100 --postgres-dsn="..."
//	go run ./cmd/accuracy --n=1000 --bits=16 --reps=100 --serve=:8090
//
// demo: Deploys n in-process party servers plus a coordinator run for a
// quick end-to-end demonstration of both protocol variants.
//
//	go run ./cmd/demo --values=3,1,4,1,5,9,2,6 --bits=4 --statistic=median
package cmd
