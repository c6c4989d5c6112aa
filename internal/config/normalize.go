package config

import (
	"os"
	"strings"
)

// normalize expands paths, trims string settings, and applies environment
// fallbacks for secrets before validation runs.
func (c *Config) normalize() error {
	var err error
	if c.Database.Path, err = expandPath(strings.TrimSpace(c.Database.Path)); err != nil {
		return err
	}
	if c.Logging.Dir, err = expandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
		return err
	}

	c.Oracle.Engine = strings.ToLower(strings.TrimSpace(c.Oracle.Engine))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	c.LLM.Referer = strings.TrimSpace(c.LLM.Referer)
	c.LLM.Title = strings.TrimSpace(c.LLM.Title)

	if c.LLM.APIKey == "" {
		c.LLM.APIKey = strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY"))
	}
	if model := strings.TrimSpace(os.Getenv("OPENROUTER_MODEL")); model != "" {
		c.LLM.Model = model
	}
	return nil
}
