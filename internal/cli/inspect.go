package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/metaclass/internal/class"
	"github.com/roach88/metaclass/internal/engine"
	"github.com/roach88/metaclass/internal/ir"
)

// InspectResult describes one live class.
type InspectResult struct {
	View           ir.ClassView `json:"class"`
	Meta           string       `json:"meta"`
	Bases          []string     `json:"bases"`     // qualified names
	Ancestors      []string     `json:"ancestors"` // qualified names, linearized
	SourceLocation string       `json:"source_location,omitempty"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <specs-dir> <class>",
		Short: "Show the names, bases, location and attributes of a class",
		Long: `Materialize the classes of a specs directory and describe one of them.

The class is named by its declaration name, or by a builtin name such as
"object" or "int". Everything shown is read through the meta-object
protocol, so no attribute hook runs.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, args[0], args[1], cmd)
		},
	}
	return cmd
}

func runInspect(opts *RootOptions, specsDir, name string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	eng, _, err := loadEngine(opts, formatter, specsDir)
	if err != nil {
		return err
	}

	c, err := lookupClass(eng, formatter, name)
	if err != nil {
		return err
	}

	view, err := eng.View(c)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	result := InspectResult{
		View:      view,
		Meta:      c.Meta().MetaQualifiedName(),
		Bases:     qualifiedNames(c.Bases()),
		Ancestors: qualifiedNames(class.Ancestors(c)),
	}
	if eng.HasLocation(c) {
		loc, err := eng.LocationOf(c)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
		}
		result.SourceLocation = loc.String()
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	location := result.SourceLocation
	if location == "" {
		location = "(none)"
	}
	fmt.Fprintln(w, view.QualifiedName)
	fmt.Fprintf(w, "  simple name:    %s\n", view.SimpleName)
	fmt.Fprintf(w, "  qualified name: %s\n", view.QualifiedName)
	fmt.Fprintf(w, "  meta:           %s\n", result.Meta)
	fmt.Fprintf(w, "  bases:          %s\n", strings.Join(result.Bases, ", "))
	fmt.Fprintf(w, "  ancestors:      %s\n", strings.Join(result.Ancestors, ", "))
	fmt.Fprintf(w, "  location:       %s\n", location)
	if len(view.Attrs) > 0 {
		fmt.Fprintln(w, "  attrs:")
		for _, a := range view.Attrs {
			fmt.Fprintf(w, "    %s (%s) = %s\n", a.Name, a.Kind, a.Value)
		}
	}
	return nil
}

// lookupClass resolves name in eng, reporting unknown classes through f.
func lookupClass(eng *engine.Engine, f *OutputFormatter, name string) (*class.Class, error) {
	c, err := eng.Lookup(name)
	if engine.IsUnknownClass(err) {
		return nil, f.Fail(ExitCommandError, ErrCodeUnknownClass, fmt.Sprintf("unknown class: %s", name), nil)
	}
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
	return c, nil
}

func qualifiedNames(classes []*class.Class) []string {
	names := make([]string, len(classes))
	for i, c := range classes {
		names[i] = c.MetaQualifiedName()
	}
	return names
}
