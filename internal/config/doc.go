// Package config loads, defaults, normalizes, and validates the TOML
// configuration for the deduplication pipeline.
//
// Thresholds and limits are configuration, not constants: every component
// receives its settings at construction. Invalid threshold combinations
// are rejected here, before any processing begins.
package config
