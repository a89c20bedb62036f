package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/margin/internal/store"
)

// ReplayReport is the JSON view of a replay verification.
type ReplayReport struct {
	RunID      string   `json:"run_id"`
	Model      string   `json:"model"`
	Match      bool     `json:"match"`
	Mismatches []string `json:"mismatches,omitempty"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	var database string

	cmd := &cobra.Command{
		Use:   "replay <run-id>",
		Short: "Re-run a stored run from its seed and verify the results",
		Long: `Re-run a stored run from its seed and verify the results.

The stored scenario document is rebuilt and simulated with the recorded
seed. The engine is deterministic, so the replay must reproduce every
stored value exactly; any difference means the database was altered or the
run came from different code. Exits 1 on drift.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(rootOpts, database, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&database, "db", "", "path to the run database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runReplay(opts *RootOptions, database, id string, cmd *cobra.Command) error {
	st, err := store.Open(database)
	if err != nil {
		return WrapExitError(ExitCommandError, "open database", err)
	}
	defer st.Close()

	slog.Debug("replaying run", "id", id)
	replay, err := st.Replay(cmd.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			return WrapExitError(ExitCommandError, "run not found", err)
		}
		return WrapExitError(ExitCommandError, "replay run", err)
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	rep := ReplayReport{RunID: replay.RunID, Model: replay.Model, Match: replay.Match()}
	for _, m := range replay.Mismatches {
		rep.Mismatches = append(rep.Mismatches, m.String())
	}

	if replay.Match() {
		if formatter.Format == "json" {
			return formatter.Success(rep)
		}
		fmt.Fprintf(formatter.Writer, "✓ Run %s reproduced exactly\n", id)
		return nil
	}

	if formatter.Format == "json" {
		_ = formatter.Error("replay drift", rep)
	} else {
		fmt.Fprintf(formatter.Writer, "✗ Run %s did not reproduce\n", id)
		fmt.Fprintln(formatter.Writer)
		for _, m := range replay.Mismatches {
			fmt.Fprintf(formatter.Writer, "  %s\n", m)
		}
	}
	return NewExitError(ExitFailure,
		fmt.Sprintf("replay drift: %d value(s) differ", len(replay.Mismatches)))
}
