package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/roach88/margin/internal/report"
	"github.com/roach88/margin/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
	Detailed bool
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "show <run-id>",
		Short:         "Render a stored run's report",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the run database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "include model assumptions and percentile ladder")

	return cmd
}

func runShow(opts *ShowOptions, id string, cmd *cobra.Command) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	run, err := st.GetRun(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			return WrapExitError(ExitCommandError, "run not found", err)
		}
		return WrapExitError(ExitCommandError, "load run", err)
	}

	res := run.Result()
	out := cmd.OutOrStdout()

	if opts.Format == "json" {
		if err := report.JSON(out, report.Export{Result: res}, false); err != nil {
			return WrapExitError(ExitCommandError, "render report", err)
		}
		return nil
	}

	if opts.Detailed {
		// The percentile ladder needs the raw samples, if the run kept them.
		samples, err := st.LoadSamples(ctx, id)
		if err != nil {
			return WrapExitError(ExitCommandError, "load samples", err)
		}
		if len(samples) > 0 {
			res.Samples = samples
		}

		m, err := run.Document.Build()
		if err != nil {
			return WrapExitError(ExitCommandError, "rebuild model", err)
		}
		if err := report.Detailed(out, res, m); err != nil {
			return WrapExitError(ExitCommandError, "render report", err)
		}
		return nil
	}

	if err := report.Summary(out, res); err != nil {
		return WrapExitError(ExitCommandError, "render report", err)
	}
	return nil
}
