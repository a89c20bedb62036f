package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/margin/internal/model"
)

// ModelInfo describes one registered model for listing.
type ModelInfo struct {
	Name   string   `json:"name"`
	Inputs []string `json:"inputs"`
}

// NewModelsCommand creates the models command.
func NewModelsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "models",
		Short:         "List the registered ROI models and their uncertain inputs",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModels(rootOpts, cmd)
		},
	}

	return cmd
}

func runModels(opts *RootOptions, cmd *cobra.Command) error {
	infos := make([]ModelInfo, 0, len(model.Names()))
	for _, name := range model.Names() {
		m, err := model.New(name, nil)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("construct model %s", name), err)
		}
		inputs := make([]string, 0, len(m.Inputs()))
		for _, in := range m.Inputs() {
			inputs = append(inputs, in.Name)
		}
		infos = append(infos, ModelInfo{Name: name, Inputs: inputs})
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return formatter.Success(infos)
	}

	out := cmd.OutOrStdout()
	for _, info := range infos {
		fmt.Fprintf(out, "%-28s %d inputs", info.Name, len(info.Inputs))
		if opts.Verbose {
			fmt.Fprintf(out, ": %s", strings.Join(info.Inputs, ", "))
		}
		fmt.Fprintln(out)
	}
	return nil
}
