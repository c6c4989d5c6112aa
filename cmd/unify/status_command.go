package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"unify/internal/report"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show record classification counts and the last run",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer st.Close()

			stats, err := st.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("load stats: %w", err)
			}
			last, err := st.LastRun(cmd.Context())
			if err != nil {
				return fmt.Errorf("load last run: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, report.Status(stats))
			fmt.Fprint(out, report.Run(last))
			return nil
		},
	}
}
