// Package logging provides structured logging utilities for inventory agent components.
//
// # Overview
//
// This package wraps the standard library slog package with agent defaults
// and conventions for consistent logging across all components. It supports
// environment-based log level configuration, module/version context injection,
// and automatic source location tracking for debug logs.
//
// # Features
//
//   - Structured JSON logging to stderr
//   - Environment-based log level configuration (LOG_LEVEL)
// Package logging configures the process-wide slog logger.
//
// Records are written to stderr as JSON and always carry the module and
// version attributes of the binary that emitted them:
//
//	{"time":"2025-06-02T02:00:00.412Z","level":"INFO","msg":"inventory delivered",
//	 "module":"inventoryd","version":"v0.4.1","attempts":1}
//
// Debug records also include the source location.
//
// # Levels
//
// Level names are matched case-insensitively. "warning" is accepted as an
// alias of warn and "critical" of error, so agent.log_level values written
// for older agents keep working. Anything unrecognized logs at info.
//
// The level is taken from, in order: the explicit level passed to
// SetDefaultStructuredLoggerWithLevel (agent.log_level or --log-level),
// then the LOG_LEVEL environment variable.
//
//	logging.SetDefaultStructuredLoggerWithLevel("inventoryd", version, cfg.Agent.LogLevel)
//
// NewLogLogger bridges libraries that expect a *log.Logger, such as
// http.Server.ErrorLog, onto the same handler.
package logging
