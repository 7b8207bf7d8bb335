package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool       `json:"valid"`
	Errors []CLIError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var failFast bool

	cmd := &cobra.Command{
		Use:   "validate <specs-dir>",
		Short: "Validate class declarations without producing output",
		Long: `Validate CUE class declarations without writing compiled output.

Performs the same checks as compile and reports every problem found,
or only the first one with --fail-fast.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := LoadModeCollectAll
			if failFast {
				mode = LoadModeFailFast
			}
			return runValidate(rootOpts, args[0], mode, cmd)
		},
	}

	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "stop at the first error")

	return cmd
}

func runValidate(opts *RootOptions, specsDir string, mode LoadMode, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	loadResult, loadErrors := LoadSpecs(specsDir, mode)
	if loadResult == nil {
		return formatter.FailAll(loadErrors)
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, specsDir)

	result := ValidationResult{Valid: len(loadErrors) == 0}
	for _, err := range loadErrors {
		result.Errors = append(result.Errors, toCLIError(err))
	}

	if formatter.JSON() {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else if result.Valid {
		fmt.Fprintf(formatter.Writer, "\u2713 %d class(es) valid\n", len(loadResult.Classes))
	} else {
		fmt.Fprintf(formatter.Writer, "\u2717 Validation failed with %d error(s)\n\n", len(loadErrors))
		for _, err := range loadErrors {
			fmt.Fprintf(formatter.Writer, "  %v\n", err)
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(loadErrors)))
	}
	return nil
}
