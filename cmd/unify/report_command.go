package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"unify/internal/report"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var (
		limit  int
		output string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the duplicate groups found by the last run",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer st.Close()

			groups, err := st.Groups(cmd.Context())
			if err != nil {
				return fmt.Errorf("load groups: %w", err)
			}
			if len(groups) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No duplicate groups recorded; run `unify run` first.")
				return nil
			}
			rendered := report.Groups(groups, limit)
			if output != "" {
				if err := os.WriteFile(output, []byte(rendered), 0o644); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", output)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", report.DefaultGroupLimit, "Maximum number of groups to show")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the report to a file instead of stdout")
	return cmd
}
