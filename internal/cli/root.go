package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string

	// Resolved in PersistentPreRunE. Commands constructed on their own
	// fall back to DefaultConfig and a discarding logger.
	Config *Config
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the metaclass CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "metaclass",
		Short: "metaclass - dynamic class objects and their metadata",
		Long: `Compile class declarations, materialize them as live class objects,
and query their names, source locations and subtype relationships.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.setup(cmd); err != nil {
				// Subcommands silence cobra's error output.
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return err
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default: ./metaclass.yaml)")

	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))
	cmd.AddCommand(NewIsaCommand(opts))
	cmd.AddCommand(NewSnapshotCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// setup validates global flags, loads the configuration and builds the
// logger.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	if !isValidFormat(o.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}
	cfg, err := LoadConfig(o.ConfigFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "loading config", err)
	}
	logger, err := cfg.NewLogger(cmd.ErrOrStderr(), o.Verbose)
	if err != nil {
		return WrapExitError(ExitCommandError, "configuring logger", err)
	}
	o.Config = cfg
	o.Logger = logger
	logger.Debug("config loaded",
		"subtype_cache", cfg.SubtypeCache,
		"expose_internal_sources", cfg.ExposeInternalSources,
		"log_level", cfg.LogLevel)
	return nil
}

func (o *RootOptions) config() *Config {
	if o.Config == nil {
		return DefaultConfig()
	}
	return o.Config
}

func (o *RootOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // keeps JSON on stdout clean
		Verbose:   o.Verbose,
	}
}

func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
