package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/margin/internal/store"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	var database string

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List stored runs, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, database, cmd)
		},
	}

	cmd.Flags().StringVar(&database, "db", "", "path to the run database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runList(opts *RootOptions, database string, cmd *cobra.Command) error {
	st, err := store.Open(database)
	if err != nil {
		return WrapExitError(ExitCommandError, "open database", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "list runs", err)
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return formatter.Success(runs)
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No stored runs.")
		return nil
	}

	fmt.Fprintf(out, "%-36s  %-20s  %-24s  %-26s  %10s  %12s\n",
		"ID", "CREATED", "SCENARIO", "MODEL", "ITERATIONS", "SEED")
	for _, run := range runs {
		fmt.Fprintf(out, "%-36s  %-20s  %-24s  %-26s  %10d  %12d\n",
			run.ID,
			run.CreatedAt.UTC().Format(time.RFC3339),
			run.Scenario,
			run.Model,
			run.Iterations,
			run.Seed,
		)
	}
	return nil
}
