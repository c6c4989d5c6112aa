package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"unify/internal/engine"
	"unify/internal/oracle"
	"unify/internal/report"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run a full deduplication pass",
		Long: `Run normalizes every company label, blocks candidate pairs, scores
them, classifies the scores, sends uncertain pairs to the configured
oracle, merges confirmed duplicates into groups, and writes the outcome
back to the database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, err := ctx.newLogger()
			if err != nil {
				return fmt.Errorf("set up logging: %w", err)
			}

			return ctx.withRunLock(func() error {
				st, err := ctx.openStore()
				if err != nil {
					return fmt.Errorf("open database: %w", err)
				}
				defer st.Close()

				orc, err := oracle.FromConfig(cfg)
				if err != nil {
					return err
				}

				runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				summary, err := engine.New(cfg, logger, st, st, orc).Run(runCtx)
				if err != nil {
					return fmt.Errorf("deduplication run: %w", err)
				}

				fmt.Fprint(cmd.OutOrStdout(), report.Run(summary))
				return nil
			})
		},
	}
}
