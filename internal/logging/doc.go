// Package logging assembles the structured slog loggers used across the
// deduplication pipeline.
//
// It owns the console and JSON handlers and centralizes level parsing so
// every component emits log lines with the same shape. Prefer these
// constructors over hand-rolled slog setup.
package logging
