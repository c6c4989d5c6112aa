package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"unify/internal/config"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if cfg.Matching.AutoDuplicateThreshold != 0.92 {
		t.Fatalf("unexpected default threshold %f", cfg.Matching.AutoDuplicateThreshold)
	}
	if cfg.Oracle.Engine != config.OracleEngineHeuristic {
		t.Fatalf("unexpected default oracle engine %q", cfg.Oracle.Engine)
	}
	if !cfg.Oracle.RevisitProbables {
		t.Fatal("revisit_probables should default to true")
	}
}

func TestLoadParsesAndExpands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "unify.toml")
	content := `
[database]
path = "` + filepath.Join(dir, "companies.db") + `"
batch_size = 10

[matching]
auto_duplicate_threshold = 0.9
probable_threshold = 0.7
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution: exists=%v path=%q", exists, resolved)
	}
	if cfg.Database.BatchSize != 10 {
		t.Fatalf("batch_size = %d, want 10", cfg.Database.BatchSize)
	}
	if cfg.Matching.AutoDuplicateThreshold != 0.9 {
		t.Fatalf("threshold = %f, want 0.9", cfg.Matching.AutoDuplicateThreshold)
	}
	// Untouched sections keep defaults.
	if cfg.Matching.MaxBlockSize != 500 {
		t.Fatalf("max_block_size = %d, want default 500", cfg.Matching.MaxBlockSize)
	}
}

func TestValidateRejectsBadThresholds(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*config.Config)
		wantMsg string
	}{
		{
			"probable above auto",
			func(c *config.Config) { c.Matching.ProbableThreshold = 0.95 },
			"probable_threshold",
		},
		{
			"probable equals auto",
			func(c *config.Config) {
				c.Matching.ProbableThreshold = c.Matching.AutoDuplicateThreshold
			},
			"probable_threshold",
		},
		{
			"auto above one",
			func(c *config.Config) { c.Matching.AutoDuplicateThreshold = 1.2 },
			"auto_duplicate_threshold",
		},
		{
			"negative probable",
			func(c *config.Config) { c.Matching.ProbableThreshold = -0.1 },
			"probable_threshold",
		},
		{
			"confidence out of range",
			func(c *config.Config) { c.Oracle.ConfidenceAccept = 1.5 },
			"confidence_accept",
		},
		{
			"block size too small",
			func(c *config.Config) { c.Matching.MaxBlockSize = 1 },
			"max_block_size",
		},
		{
			"batch size zero",
			func(c *config.Config) { c.Database.BatchSize = 0 },
			"batch_size",
		},
		{
			"unknown oracle engine",
			func(c *config.Config) { c.Oracle.Engine = "ouija" },
			"oracle.engine",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Fatalf("error %q does not mention %q", err, tc.wantMsg)
			}
		})
	}
}

func TestValidateOpenRouterRequiresKey(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	cfg := config.Default()
	cfg.Oracle.Engine = config.OracleEngineOpenRouter
	cfg.LLM.APIKey = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected api key requirement for openrouter engine")
	}
	cfg.LLM.APIKey = "sk-test"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error with key set: %v", err)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "auto_duplicate_threshold") {
		t.Fatal("sample config missing expected keys")
	}
}
