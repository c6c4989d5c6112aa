package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Database configures the SQLite store holding company records.
type Database struct {
	Path      string `toml:"path"`
	BatchSize int    `toml:"batch_size"`
}

// Matching configures candidate generation and score classification.
type Matching struct {
	AutoDuplicateThreshold float64 `toml:"auto_duplicate_threshold"`
	ProbableThreshold      float64 `toml:"probable_threshold"`
	MaxBlockSize           int     `toml:"max_block_size"`
	// ScoreWorkers bounds the scoring worker pool; 0 means one worker per
	// available CPU.
	ScoreWorkers int `toml:"score_workers"`
}

// Grouping configures equivalence-class construction.
type Grouping struct {
	// CoherenceMin is the minimum composite score between a member and its
	// primary. Members below it are detached from the group as transitive
	// false positives.
	CoherenceMin float64 `toml:"coherence_min"`
}

// Primary configures canonical record selection.
type Primary struct {
	// QualityMin is the label quality floor. When no member reaches it, a
	// cleaned primary record is synthesized instead.
	QualityMin float64 `toml:"quality_min"`
}

// Oracle configures adjudication of probable pairs.
type Oracle struct {
	// Engine selects the oracle implementation: "heuristic" or "openrouter".
	Engine           string  `toml:"engine"`
	ConfidenceAccept float64 `toml:"confidence_accept"`
	// MaxCalls caps remote oracle invocations per run; 0 means unlimited.
	// The heuristic engine ignores it.
	MaxCalls       int `toml:"max_calls"`
	CallIntervalMS int `toml:"call_interval_ms"`
	// RevisitProbables controls whether the pre-run reset clears rows left
	// probable by earlier runs so their pairs are adjudicated again.
	RevisitProbables bool `toml:"revisit_probables"`
}

// LLM contains connection settings for the remote model oracle.
type LLM struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	Referer        string `toml:"referer"`
	Title          string `toml:"title"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Logging contains log output settings.
type Logging struct {
	// Format is "console", "json", or empty to auto-detect from the
	// terminal.
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
}

// Config encapsulates all settings for a deduplication run.
type Config struct {
	Database Database `toml:"database"`
	Matching Matching `toml:"matching"`
	Grouping Grouping `toml:"grouping"`
	Primary  Primary  `toml:"primary"`
	Oracle   Oracle   `toml:"oracle"`
	LLM      LLM      `toml:"llm"`
	Logging  Logging  `toml:"logging"`
}

// OracleEngine values accepted by Oracle.Engine.
const (
	OracleEngineHeuristic  = "heuristic"
	OracleEngineOpenRouter = "openrouter"
)

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/unify/config.toml")
}

// Load locates, parses, normalizes, and validates a configuration file.
// A missing file yields the defaults, which still pass validation.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("unify.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// LockPath returns the run lock file guarding the database against
// concurrent batches.
func (c *Config) LockPath() string {
	return c.Database.Path + ".lock"
}

// CreateSample writes the embedded sample configuration to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
