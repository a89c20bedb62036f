package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/margin/internal/report"
	"github.com/roach88/margin/internal/sim"
)

// SensitivityOptions holds flags for the sensitivity command.
type SensitivityOptions struct {
	*RootOptions
	Param  string
	Values []float64
}

// NewSensitivityCommand creates the sensitivity command.
func NewSensitivityCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SensitivityOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sensitivity <scenario.yaml>",
		Short: "Sweep one configuration parameter and compare point outcomes",
		Long: `Sweep one configuration parameter and compare point outcomes.

Without flags, runs the sweeps declared in the scenario's sensitivity
section. With --param and --values, runs a single ad-hoc sweep instead.

Example:
  margin sensitivity scenarios/bed-turnover.yaml
  margin sensitivity scenarios/bed-turnover.yaml --param bed_count --values 200,300,400`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSensitivity(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Param, "param", "", "configuration parameter to sweep")
	cmd.Flags().Float64SliceVar(&opts.Values, "values", nil, "values to sweep over")

	return cmd
}

func runSensitivity(opts *SensitivityOptions, path string, cmd *cobra.Command) error {
	sc, err := loadScenario(path)
	if err != nil {
		return err
	}

	m, err := sc.Build()
	if err != nil {
		return WrapExitError(ExitFailure, "build model", err)
	}

	type sweepSpec struct {
		param  string
		values []float64
	}
	var specs []sweepSpec
	switch {
	case opts.Param != "":
		if len(opts.Values) == 0 {
			return NewExitError(ExitCommandError, "--values is required with --param")
		}
		specs = []sweepSpec{{param: opts.Param, values: opts.Values}}
	case len(sc.Sensitivity) > 0:
		for _, spec := range sc.Sensitivity {
			specs = append(specs, sweepSpec{param: spec.Param, values: spec.Values})
		}
	default:
		return NewExitError(ExitCommandError,
			"scenario declares no sensitivity sweeps; use --param and --values")
	}

	sweeps := make([]*sim.Sweep, 0, len(specs))
	for _, spec := range specs {
		sweep, err := sim.Sensitivity(m, spec.param, spec.values)
		if err != nil {
			return WrapExitError(ExitFailure, fmt.Sprintf("sweep %s", spec.param), err)
		}
		sweeps = append(sweeps, sweep)
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		if err := report.JSON(out, report.Export{Sweeps: sweeps}, false); err != nil {
			return WrapExitError(ExitCommandError, "render report", err)
		}
		return nil
	}

	for i, sweep := range sweeps {
		if i > 0 {
			fmt.Fprintln(out)
		}
		if err := report.SweepTable(out, sweep); err != nil {
			return WrapExitError(ExitCommandError, "render report", err)
		}
	}
	return nil
}
