package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// IsaResult is the answer to a subtype query.
type IsaResult struct {
	Candidate string `json:"candidate"`
	Target    string `json:"target"`
	Subtype   bool   `json:"subtype"`
}

// NewIsaCommand creates the isa command.
func NewIsaCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "isa <specs-dir> <candidate> <target>",
		Short: "Report whether one class is a subtype of another",
		Long: `Materialize the classes of a specs directory and report whether
candidate is target or inherits from it.

Exit codes:
  0 - candidate is a subtype of target
  1 - candidate is not a subtype of target
  2 - Command error (invalid specs, unknown class, etc.)`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIsa(rootOpts, args[0], args[1], args[2], cmd)
		},
	}
	return cmd
}

func runIsa(opts *RootOptions, specsDir, candidateName, targetName string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	eng, _, err := loadEngine(opts, formatter, specsDir)
	if err != nil {
		return err
	}
	candidate, err := lookupClass(eng, formatter, candidateName)
	if err != nil {
		return err
	}
	target, err := lookupClass(eng, formatter, targetName)
	if err != nil {
		return err
	}

	result := IsaResult{
		Candidate: candidate.MetaQualifiedName(),
		Target:    target.MetaQualifiedName(),
		Subtype:   eng.IsSubtype(candidate, target),
	}
	opts.logger().Debug("subtype query", "candidate", result.Candidate, "target", result.Target, "result", result.Subtype)

	if formatter.JSON() {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else if result.Subtype {
		fmt.Fprintf(formatter.Writer, "%s is a subtype of %s\n", result.Candidate, result.Target)
	} else {
		fmt.Fprintf(formatter.Writer, "%s is not a subtype of %s\n", result.Candidate, result.Target)
	}

	if !result.Subtype {
		return NewExitError(ExitFailure, fmt.Sprintf("%s is not a subtype of %s", result.Candidate, result.Target))
	}
	return nil
}
