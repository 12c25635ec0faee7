// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments (development vs production)
// and integrates with the Fiber web framework used by the serve command.
//
// # Context Awareness
//
// The logger is context-aware regarding RayIDs (Request IDs). The WithRayID helper extracts the
// RayID set by the rayid middleware from a Fiber context and attaches it to the log entry, so all
// logs related to a specific request can be correlated.
//
// Sync commands attach kind, env, remote_id and config fields to every per-entry line instead.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: console (default for the CLI) or json
//
// Output goes to stderr; stdout is reserved for command results.
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "console"})
//	log.Info("Push finished")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
