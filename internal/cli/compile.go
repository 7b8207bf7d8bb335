package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/metaclass/internal/ir"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompilationResult is the compiled form of a specs directory.
type CompilationResult struct {
	Classes []CompiledClass `json:"classes"`
}

// CompiledClass is one class declaration as written to the IR file.
type CompiledClass struct {
	Name     string         `json:"name"`
	QualName string         `json:"qualname"`
	Bases    []string       `json:"bases"`
	Attrs    []CompiledAttr `json:"attrs"`
	Location *ir.Location   `json:"location,omitempty"`
}

// CompiledAttr is one attribute with its kind and printable value.
type CompiledAttr struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <specs-dir>",
		Short: "Compile CUE class declarations",
		Long: `Compile the class declarations of a CUE specs directory.

Every file in the directory is loaded as one CUE instance. Classes are
read from the top-level "class" struct, validated, and checked for unknown
bases and inheritance cycles before being printed or written as JSON.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, specsDir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	loadResult, loadErrors := LoadSpecs(specsDir, LoadModeCollectAll)
	if len(loadErrors) > 0 {
		return formatter.FailAll(loadErrors)
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, specsDir)

	result := &CompilationResult{Classes: make([]CompiledClass, 0, len(loadResult.Classes))}
	for _, decl := range loadResult.Classes {
		formatter.VerboseLog("Compiled class: %s", decl.Name)
		result.Classes = append(result.Classes, compiledClass(decl))
	}

	if opts.Output != "" {
		if err := writeIRToFile(result, opts.Output); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
		}
		opts.logger().Info("wrote compiled classes", "path", opts.Output, "classes", len(result.Classes))
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "\u2713 Compiled %d class(es)\n\n", len(result.Classes))
	for _, c := range result.Classes {
		bases := "object"
		if len(c.Bases) > 0 {
			bases = strings.Join(c.Bases, ", ")
		}
		fmt.Fprintf(w, "  %s(%s): %d attribute(s)\n", c.QualName, bases, len(c.Attrs))
	}
	if opts.Output != "" {
		fmt.Fprintf(w, "\nWrote compiled classes to %s\n", opts.Output)
	}
	return nil
}

func compiledClass(decl ir.ClassDecl) CompiledClass {
	c := CompiledClass{
		Name:     decl.Name,
		QualName: decl.QualName,
		Bases:    append([]string{}, decl.Bases...),
		Attrs:    make([]CompiledAttr, 0, len(decl.Attrs)),
		Location: decl.Loc,
	}
	if c.QualName == "" {
		c.QualName = decl.Name
	}
	for _, a := range decl.Attrs {
		c.Attrs = append(c.Attrs, CompiledAttr{
			Name:  a.Name,
			Kind:  a.Value.Kind().String(),
			Value: ir.Repr(a.Value),
		})
	}
	return c
}

// writeIRToFile writes the compilation result as indented JSON.
func writeIRToFile(result *CompilationResult, filename string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling classes: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}
