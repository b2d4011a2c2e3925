// Package logging assembles structured slog loggers used across paperfilter.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context helpers so pipeline stages tag their lines
// with the run identifier and stage name. A no-op logger is provided for
// tests and wiring code that cannot fail.
package logging
