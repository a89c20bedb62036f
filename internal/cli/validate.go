package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/margin/internal/scenario"
)

// ValidationResult holds scenario validation results.
type ValidationResult struct {
	Valid    bool   `json:"valid"`
	Scenario string `json:"scenario,omitempty"`
	Model    string `json:"model,omitempty"`
	Error    string `json:"error,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario.yaml>",
		Short: "Validate a scenario file without running it",
		Long: `Validate a scenario file without running it.

Checks the document against the scenario schema, then builds the model to
catch unknown configuration keys and input names. Faster than a run for
editing feedback.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	sc, err := scenario.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			_ = formatter.Error("scenario file not found", err.Error())
			return WrapExitError(ExitCommandError, "scenario file not found", err)
		}
		return outputValidationFailure(formatter, err)
	}

	formatter.VerboseLog("Schema and field checks passed for %s", path)

	// The schema cannot know model names or configuration keys; building
	// the model is the only way to check those.
	if _, err := sc.Build(); err != nil {
		return outputValidationFailure(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Scenario: sc.Name, Model: sc.Model})
	}
	fmt.Fprintf(formatter.Writer, "✓ Scenario %q valid (model %s)\n", sc.Name, sc.Model)
	return nil
}

func outputValidationFailure(formatter *OutputFormatter, err error) error {
	if formatter.Format == "json" {
		_ = formatter.Error("validation failed", ValidationResult{Valid: false, Error: err.Error()})
	} else {
		fmt.Fprintln(formatter.Writer, "✗ Validation failed")
		fmt.Fprintln(formatter.Writer)
		fmt.Fprintf(formatter.Writer, "  %v\n", err)
	}
	return WrapExitError(ExitFailure, "validation failed", err)
}
