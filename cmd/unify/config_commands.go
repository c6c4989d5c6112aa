package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"unify/internal/config"
)

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand())
	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit [llm] api_key (or export OPENROUTER_API_KEY) before selecting the openrouter oracle.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Validate configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load("")
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintf(out, "Database: %s\n", cfg.Database.Path)
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "show",
		Short:       "Show the effective configuration",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load("")
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s (exists: %t)\n\n", path, exists)
			fmt.Fprintf(out, "database.path              = %s\n", cfg.Database.Path)
			fmt.Fprintf(out, "database.batch_size        = %d\n", cfg.Database.BatchSize)
			fmt.Fprintf(out, "matching.auto_duplicate    = %.2f\n", cfg.Matching.AutoDuplicateThreshold)
			fmt.Fprintf(out, "matching.probable          = %.2f\n", cfg.Matching.ProbableThreshold)
			fmt.Fprintf(out, "matching.max_block_size    = %d\n", cfg.Matching.MaxBlockSize)
			fmt.Fprintf(out, "matching.score_workers     = %d\n", cfg.Matching.ScoreWorkers)
			fmt.Fprintf(out, "grouping.coherence_min     = %.2f\n", cfg.Grouping.CoherenceMin)
			fmt.Fprintf(out, "primary.quality_min        = %.2f\n", cfg.Primary.QualityMin)
			fmt.Fprintf(out, "oracle.engine              = %s\n", cfg.Oracle.Engine)
			fmt.Fprintf(out, "oracle.confidence_accept   = %.2f\n", cfg.Oracle.ConfidenceAccept)
			fmt.Fprintf(out, "oracle.max_calls           = %d\n", cfg.Oracle.MaxCalls)
			fmt.Fprintf(out, "oracle.revisit_probables   = %t\n", cfg.Oracle.RevisitProbables)
			fmt.Fprintf(out, "llm.model                  = %s\n", cfg.LLM.Model)
			fmt.Fprintf(out, "llm.api_key                = %s\n", maskSecret(cfg.LLM.APIKey))
			fmt.Fprintf(out, "logging.format             = %s\n", displayOrAuto(cfg.Logging.Format))
			fmt.Fprintf(out, "logging.level              = %s\n", cfg.Logging.Level)
			return nil
		},
	}
}

func maskSecret(value string) string {
	if value == "" {
		return "(unset)"
	}
	if len(value) <= 8 {
		return "********"
	}
	return value[:4] + "…" + value[len(value)-4:]
}

func displayOrAuto(value string) string {
	if value == "" {
		return "(auto)"
	}
	return value
}
