package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import company labels from a CSV file",
		Long: `Import reads company labels from a CSV file (or stdin when the
argument is "-") and appends them to the database as source records. A
header row with a label, name, or company column is honored; otherwise
the first field of each row is used.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRunLock(func() error {
				var input io.Reader
				if args[0] == "-" {
					input = cmd.InOrStdin()
				} else {
					file, err := os.Open(args[0])
					if err != nil {
						return fmt.Errorf("open input: %w", err)
					}
					defer file.Close()
					input = file
				}

				st, err := ctx.openStore()
				if err != nil {
					return fmt.Errorf("open database: %w", err)
				}
				defer st.Close()

				count, err := st.ImportCSV(cmd.Context(), input)
				if err != nil {
					return fmt.Errorf("import records: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d records into %s\n", count, st.Path())
				return nil
			})
		},
	}
}
