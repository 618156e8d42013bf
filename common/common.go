// Package common provides shared constants and logger setup for the
// services and binaries.
package common

import (
	"log/slog"
	"os"
)

// PackageName identifies this system in metrics and logs.
const PackageName = "dp-kre"

// LoggerOpts configures SetupLogger.
type LoggerOpts struct {
	// Debug lowers the log level to debug.
	Debug bool

	// JSON switches from text to JSON output.
	JSON bool

	// Service is attached to every record as the "service" attribute.
	Service string
}

// SetupLogger creates the process logger. Binaries call this once and pass
// the logger down explicitly.
func SetupLogger(opts *LoggerOpts) *slog.Logger {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	log := slog.New(handler)
	if opts.Service != "" {
		log = log.With("service", opts.Service)
	}
	return log
}
