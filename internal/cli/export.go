package cli

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/margin/internal/report"
	"github.com/roach88/margin/internal/store"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Database string
	Out      string
	CSV      bool
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <run-id>",
		Short: "Export a stored run as JSON or its samples as CSV",
		Long: `Export a stored run as JSON or its samples as CSV.

JSON export includes the point estimate, summaries, probabilities, drivers,
and any stored raw samples. CSV export writes the raw samples only, one
column per metric and one row per iteration, for analysis in a spreadsheet
or notebook.

Example:
  margin export 0195... --db runs.db --out run.json
  margin export 0195... --db runs.db --csv --out samples.csv`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the run database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Out, "out", "", "write to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.CSV, "csv", false, "export raw samples as CSV")

	return cmd
}

func runExport(opts *ExportOptions, id string, cmd *cobra.Command) error {
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

	samples, err := st.LoadSamples(ctx, id)
	if err != nil {
		return WrapExitError(ExitCommandError, "load samples", err)
	}

	out := cmd.OutOrStdout()
	if opts.Out != "" {
		f, err := os.Create(opts.Out)
		if err != nil {
			return WrapExitError(ExitCommandError, "create output file", err)
		}
		defer f.Close()
		out = f
	}

	if opts.CSV {
		if len(samples) == 0 {
			return NewExitError(ExitCommandError,
				"run has no stored samples; re-run with --samples to keep them")
		}
		if err := writeSamplesCSV(out, samples); err != nil {
			return WrapExitError(ExitCommandError, "write CSV", err)
		}
		return nil
	}

	res := run.Result()
	res.Samples = samples
	if err := report.JSON(out, report.Export{Result: res}, len(samples) > 0); err != nil {
		return WrapExitError(ExitCommandError, "write JSON", err)
	}
	return nil
}

// writeSamplesCSV writes one column per metric and one row per iteration.
// Non-finite values render as +Inf, -Inf, and NaN.
func writeSamplesCSV(w io.Writer, samples map[string][]float64) error {
	metrics := make([]string, 0, len(samples))
	for metric := range samples {
		metrics = append(metrics, metric)
	}
	sort.Strings(metrics)

	rows := 0
	for _, metric := range metrics {
		if n := len(samples[metric]); n > rows {
			rows = n
		}
	}

	cw := csv.NewWriter(w)
	header := append([]string{"iteration"}, metrics...)
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, len(header))
	for i := 0; i < rows; i++ {
		record[0] = strconv.Itoa(i)
		for j, metric := range metrics {
			values := samples[metric]
			if i < len(values) {
				record[j+1] = strconv.FormatFloat(values[i], 'g', -1, 64)
			} else {
				record[j+1] = ""
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
