// Package logging builds the slog loggers used across the daemon and CLI.
//
// Two output formats are supported: a compact single-line console format that
// promotes the "component" attribute into the message prefix, and standard
// JSON for machine consumption. NewFromConfig wires the configured level,
// format, and log-file destination in one call; NewNop supplies a silent
// logger for tests.
package logging
