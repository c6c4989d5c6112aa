// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"unify/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config backed by unique temp paths per test. It
// defaults to the heuristic oracle so tests never touch the network.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Database.Path = filepath.Join(base, "unify.db")
	cfgVal.Logging.Dir = ""
	cfgVal.Oracle.Engine = config.OracleEngineHeuristic
	cfgVal.Oracle.CallIntervalMS = 0

	cfg := &cfgVal
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithBatchSize overrides the database write batch size.
func WithBatchSize(size int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Database.BatchSize = size
	}
}

// WithOracleEngine selects the oracle implementation under test.
func WithOracleEngine(engine string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Oracle.Engine = engine
	}
}
