// Package main hosts the unify CLI entrypoint and command graph.
//
// The Cobra-based command tree covers the full lifecycle of a
// deduplication pass: importing company records, running the matching
// engine, and inspecting results and configuration. It centralizes config
// resolution, the run lock, and logger setup so subcommands stay small.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
