package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/margin/internal/report"
	"github.com/roach88/margin/internal/scenario"
	"github.com/roach88/margin/internal/sim"
	"github.com/roach88/margin/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database   string
	Iterations int
	Seed       uint64
	Detailed   bool
	Samples    bool
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a Monte Carlo simulation from a scenario file",
		Long: `Run a Monte Carlo simulation from a scenario file.

The scenario names the model, overlays configuration and input
distributions, and fixes the iteration count and seed. Runs are fully
reproducible: the same scenario and seed always produce the same result.

Example:
  margin run scenarios/bed-turnover.yaml
  margin run scenarios/bed-turnover.yaml --iterations 50000 --seed 7
  margin run scenarios/bed-turnover.yaml --db runs.db --samples`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "save the run to this SQLite database")
	cmd.Flags().IntVar(&opts.Iterations, "iterations", 0, "override the scenario's iteration count")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "override the scenario's seed")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "include model assumptions and percentile ladder")
	cmd.Flags().BoolVar(&opts.Samples, "samples", false, "keep raw per-iteration samples in JSON output and the database")

	return cmd
}

func runSimulation(opts *RunOptions, path string, cmd *cobra.Command) error {
	sc, err := loadScenario(path)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("iterations") {
		sc.Simulation.Iterations = opts.Iterations
	}
	if cmd.Flags().Changed("seed") {
		sc.Simulation.Seed = opts.Seed
	}

	m, err := sc.Build()
	if err != nil {
		return WrapExitError(ExitFailure, "build model", err)
	}

	slog.Debug("simulation starting",
		"scenario", sc.Name, "model", sc.Model,
		"iterations", sc.Simulation.Iterations, "seed", sc.Simulation.Seed)

	res, err := sim.Run(m, sc.SimConfig())
	if err != nil {
		return WrapExitError(ExitFailure, "simulation failed", err)
	}

	sweeps := make([]*sim.Sweep, 0, len(sc.Sensitivity))
	for _, spec := range sc.Sensitivity {
		sweep, err := sim.Sensitivity(m, spec.Param, spec.Values)
		if err != nil {
			return WrapExitError(ExitFailure, fmt.Sprintf("sensitivity sweep %s", spec.Param), err)
		}
		sweeps = append(sweeps, sweep)
	}

	out := cmd.OutOrStdout()
	switch {
	case opts.Format == "json":
		err = report.JSON(out, report.Export{Result: res, Sweeps: sweeps}, opts.Samples)
	case opts.Detailed:
		err = renderDetailed(out, res, m, sweeps)
	default:
		err = renderSummary(out, res, sweeps)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "render report", err)
	}

	if opts.Database != "" {
		id, err := saveRun(cmd, opts.Database, sc, res, opts.Samples)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved run %s\n", id)
	}

	return nil
}

func saveRun(cmd *cobra.Command, path string, sc *scenario.Scenario, res *sim.Result, keepSamples bool) (string, error) {
	st, err := store.Open(path)
	if err != nil {
		return "", WrapExitError(ExitCommandError, "open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("closing database", "error", closeErr)
		}
	}()

	id, err := st.SaveRun(cmd.Context(), store.RunRecord{
		Scenario:    sc,
		Result:      res,
		KeepSamples: keepSamples,
	})
	if err != nil {
		return "", WrapExitError(ExitCommandError, "save run", err)
	}
	return id, nil
}

// loadScenario loads a scenario file, mapping missing files to command
// errors and everything else to analysis failures.
func loadScenario(path string) (*scenario.Scenario, error) {
	sc, err := scenario.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, WrapExitError(ExitCommandError, "scenario file not found", err)
		}
		return nil, WrapExitError(ExitFailure, "invalid scenario", err)
	}
	return sc, nil
}
