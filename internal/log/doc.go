// Package log provides grinscan's logger, built on top of the standard slog
// package.
//
// Node logs carry full Pedersen commitments, and a deanonymization run logs
// the kernels it attributes. The RedactingHandler abbreviates every
// commitment it finds in log attributes so that logs kept alongside a report
// do not become a second, unfiltered copy of the attribution results.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//	logger.Debug("kernel attributed", "kernel", kernel)
//	// kernel=08a1b2c3…
//
//	slog.SetDefault(logger)
package log
