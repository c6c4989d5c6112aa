package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Any error here is fatal at
// startup: the run must not begin with inconsistent thresholds.
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateGrouping(); err != nil {
		return err
	}
	if err := c.validateOracle(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return errors.New("database.path must be set")
	}
	if c.Database.BatchSize < 1 {
		return errors.New("database.batch_size must be at least 1")
	}
	return nil
}

func (c *Config) validateMatching() error {
	if err := unitInterval("matching.auto_duplicate_threshold", c.Matching.AutoDuplicateThreshold); err != nil {
		return err
	}
	if err := unitInterval("matching.probable_threshold", c.Matching.ProbableThreshold); err != nil {
		return err
	}
	if c.Matching.ProbableThreshold >= c.Matching.AutoDuplicateThreshold {
		return errors.New("matching.probable_threshold must be below matching.auto_duplicate_threshold")
	}
	if c.Matching.MaxBlockSize < 2 {
		return errors.New("matching.max_block_size must be at least 2")
	}
	if c.Matching.ScoreWorkers < 0 {
		return errors.New("matching.score_workers must be >= 0")
	}
	return nil
}

func (c *Config) validateGrouping() error {
	return unitInterval("grouping.coherence_min", c.Grouping.CoherenceMin)
}

func (c *Config) validateOracle() error {
	switch c.Oracle.Engine {
	case OracleEngineHeuristic:
	case OracleEngineOpenRouter:
		if c.LLM.APIKey == "" {
			return errors.New("llm.api_key must be set when oracle.engine is \"openrouter\" (or set OPENROUTER_API_KEY)")
		}
		if c.LLM.Model == "" {
			return errors.New("llm.model must be set when oracle.engine is \"openrouter\"")
		}
		if c.LLM.BaseURL == "" {
			return errors.New("llm.base_url must be set when oracle.engine is \"openrouter\"")
		}
	default:
		return fmt.Errorf("oracle.engine: unsupported value %q", c.Oracle.Engine)
	}
	if err := unitInterval("oracle.confidence_accept", c.Oracle.ConfidenceAccept); err != nil {
		return err
	}
	if c.Oracle.MaxCalls < 0 {
		return errors.New("oracle.max_calls must be >= 0")
	}
	if c.Oracle.CallIntervalMS < 0 {
		return errors.New("oracle.call_interval_ms must be >= 0")
	}
	if c.LLM.TimeoutSeconds < 0 {
		return errors.New("llm.timeout_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
}

func unitInterval(key string, value float64) error {
	if value < 0 || value > 1 {
		return fmt.Errorf("%s must be between 0 and 1", key)
	}
	return nil
}
