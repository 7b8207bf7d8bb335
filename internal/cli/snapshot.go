package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/metaclass/internal/store"
)

// SnapshotOptions holds flags for the snapshot command.
type SnapshotOptions struct {
	*RootOptions
	DBPath string
}

// SnapshotResult reports a persisted snapshot.
type SnapshotResult struct {
	ID         string `json:"id"`
	ClassCount int    `json:"class_count"`
	Inserted   bool   `json:"inserted"` // false when the snapshot was already stored
	DBPath     string `json:"db"`
}

// NewSnapshotCommand creates the snapshot command.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SnapshotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "snapshot <specs-dir>",
		Short: "Persist the class views of a specs directory",
		Long: `Materialize the classes of a specs directory, builtins included, and
store their content-addressed snapshot in a SQLite database.

The database is created if it does not exist. Storing a snapshot that is
already present is a no-op.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "SQLite database path (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runSnapshot(opts *SnapshotOptions, specsDir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	eng, _, err := loadEngine(opts.RootOptions, formatter, specsDir)
	if err != nil {
		return err
	}

	snap, err := eng.Snapshot()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("building snapshot: %v", err), nil)
	}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("opening database: %v", err), nil)
	}
	defer st.Close()

	inserted, err := st.WriteSnapshot(cmd.Context(), snap)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("writing snapshot: %v", err), nil)
	}
	opts.logger().Info("snapshot stored", "id", snap.ID, "classes", len(snap.Classes), "inserted", inserted)

	result := SnapshotResult{
		ID:         snap.ID,
		ClassCount: len(snap.Classes),
		Inserted:   inserted,
		DBPath:     opts.DBPath,
	}
	if formatter.JSON() {
		return formatter.Success(result)
	}

	verb := "Stored"
	if !inserted {
		verb = "Already stored"
	}
	fmt.Fprintf(formatter.Writer, "%s snapshot %s (%d classes) in %s\n", verb, result.ID, result.ClassCount, result.DBPath)
	return nil
}
