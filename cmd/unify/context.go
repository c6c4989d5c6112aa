package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"

	"unify/internal/config"
	"unify/internal/logging"
	"unify/internal/store"
)

type commandContext struct {
	configFlag *string
	dbFlag     *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, dbFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		dbFlag:     dbFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		// A local .env may carry OPENROUTER_API_KEY; missing files are fine.
		_ = godotenv.Load()

		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.dbFlag != nil && strings.TrimSpace(*c.dbFlag) != "" {
			expanded, err := config.ExpandPath(strings.TrimSpace(*c.dbFlag))
			if err != nil {
				c.configErr = fmt.Errorf("resolve db path: %w", err)
				return
			}
			cfg.Database.Path = expanded
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) openStore() (*store.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return store.Open(cfg)
}

func (c *commandContext) newLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.NewFromConfig(cfg)
}

// withRunLock serializes mutating commands on the database through a file
// lock next to it.
func (c *commandContext) withRunLock(fn func() error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another unify process holds the lock at %s", cfg.LockPath())
	}
	defer func() { _ = lock.Unlock() }()

	return fn()
}
