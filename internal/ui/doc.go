// Package ui provides terminal UI components for the ra2audit CLI.
//
// This package uses Bubble Tea and Lipgloss to render polished terminal
// output. Most commands follow a "run once and exit" pattern - they render
// output compellingly but don't require user interaction. The subnet scan
// is the exception: it runs an interactive view with a spinner, a progress
// bar, and a live list of discovered hosts.
//
// # Architecture
//
// The UI package provides these component types:
//
//   - Header: Command banner showing operation name and parameters
//   - Progress: Progress bar with step list showing real-time status
//   - Result: Success/failure boxes with styled information
//   - Transcript: Raw protocol line box for verbose mode
//   - ScanView: Interactive Bubble Tea model for the subnet scan
//
// Multi-step commands (the brightness trim test in particular) are
// orchestrated by the Runner, which manages the header → progress →
// result flow.
//
// # Logging Integration
//
// This package expects logging to be controlled via the RA2AUDIT_LOG_LEVEL
// environment variable. When unset or empty, zap logging is silent,
// allowing the curated UI output to be displayed cleanly.
package ui
