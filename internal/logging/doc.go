// Package logging provides structured logging for ra2audit.
//
// This package wraps zap with convenience functions for the patterns used
// throughout the tool. CLI output stays clean by default: unless a level is
// requested, the logger is a nop.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Wire traffic (lines sent/received), scan probe detail
//   - Info: Normal operations (connections, scan results, state changes)
//   - Warn: Non-fatal issues (controller errors, dropped probes)
//   - Error: Failures surfaced to the user
//
// # Configuration
//
// Set RA2AUDIT_LOG_LEVEL to debug/info/warn/error to enable output, or call
// Initialize explicitly:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use.
package logging
