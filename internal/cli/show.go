package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/metaclass/internal/ir"
	"github.com/roach88/metaclass/internal/queryir"
	"github.com/roach88/metaclass/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	DBPath string
	ID     string // snapshot ID; latest when empty
	Class  string // qualified name
	Attr   string // attribute name
	Where  []string
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Query stored snapshots",
		Long: `Query a snapshot database written by the snapshot command.

Without flags, lists every stored snapshot. With --id, prints that
snapshot's classes. --class finds one class by qualified name and --attr
lists every class storing the named attribute. --where selects classes
whose stored column equals a value; repeat it to require several. All
three use the latest snapshot unless --id is given.

Filterable columns: id, seq, name, simple_name, qualified_name, meta_id,
shape_id, ancestors, location.

Examples:
  metaclass show --db classes.db
  metaclass show --db classes.db --id <snapshot>
  metaclass show --db classes.db --class zoo.Dog
  metaclass show --db classes.db --attr speak
  metaclass show --db classes.db --where simple_name=Dog --where seq=2`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "SQLite database path (required)")
	cmd.Flags().StringVar(&opts.ID, "id", "", "snapshot ID (default: latest)")
	cmd.Flags().StringVar(&opts.Class, "class", "", "find a class by qualified name")
	cmd.Flags().StringVar(&opts.Attr, "attr", "", "find classes storing an attribute")
	cmd.Flags().StringArrayVar(&opts.Where, "where", nil, "filter classes by column=value (repeatable)")
	cmd.MarkFlagsMutuallyExclusive("class", "attr", "where")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runShow(opts *ShowOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := cmd.Context()

	if _, err := os.Stat(opts.DBPath); os.IsNotExist(err) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.DBPath), nil)
	}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("opening database: %v", err), nil)
	}
	defer st.Close()

	var filter queryir.Predicate
	if len(opts.Where) > 0 {
		if filter, err = parseWhere(opts.Where); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeBadFilter, err.Error(), nil)
		}
	}

	if opts.ID == "" && opts.Class == "" && opts.Attr == "" && filter == nil {
		return showList(ctx, st, formatter)
	}

	id := opts.ID
	if id == "" {
		if id, err = latestSnapshot(ctx, st); err != nil {
			return storeFailure(formatter, err)
		}
	}

	switch {
	case opts.Class != "":
		view, err := st.FindClass(ctx, id, opts.Class)
		if err != nil {
			return storeFailure(formatter, err)
		}
		if formatter.JSON() {
			return formatter.Success(view)
		}
		printClassView(formatter, view)
		return nil
	case opts.Attr != "":
		matches, err := st.FindAttr(ctx, id, opts.Attr)
		if err != nil {
			return storeFailure(formatter, err)
		}
		if matches == nil {
			matches = []store.AttrMatch{}
		}
		if formatter.JSON() {
			return formatter.Success(matches)
		}
		if len(matches) == 0 {
			fmt.Fprintf(formatter.Writer, "No class stores %q.\n", opts.Attr)
		}
		for _, m := range matches {
			fmt.Fprintf(formatter.Writer, "%s.%s (%s) = %s\n", m.QualifiedName, opts.Attr, m.Kind, m.Value)
		}
		return nil
	case filter != nil:
		views, err := st.SelectClasses(ctx, id, filter)
		if err != nil {
			return storeFailure(formatter, err)
		}
		if formatter.JSON() {
			return formatter.Success(views)
		}
		if len(views) == 0 {
			fmt.Fprintln(formatter.Writer, "No classes match.")
		}
		for _, view := range views {
			printClassView(formatter, view)
		}
		return nil
	default:
		snap, err := st.ReadSnapshot(ctx, id)
		if err != nil {
			return storeFailure(formatter, err)
		}
		if formatter.JSON() {
			return formatter.Success(snap)
		}
		fmt.Fprintf(formatter.Writer, "Snapshot %s (%s, %d classes)\n", snap.ID, snap.EngineVersion, len(snap.Classes))
		for _, c := range snap.Classes {
			fmt.Fprintf(formatter.Writer, "  %s: %d attribute(s)\n", c.QualifiedName, len(c.Attrs))
		}
		return nil
	}
}

// parseWhere turns column=value pairs into one predicate over stored
// classes. Values are typed by the column.
func parseWhere(pairs []string) (queryir.Predicate, error) {
	source, _ := queryir.LookupSource(queryir.SourceClasses)
	preds := make([]queryir.Predicate, 0, len(pairs))
	for _, pair := range pairs {
		field, raw, ok := strings.Cut(pair, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("filter %q: want column=value", pair)
		}
		if field == "snapshot_id" {
			return nil, fmt.Errorf("filter %q: use --id to choose a snapshot", pair)
		}
		col, ok := source.Column(field)
		if !ok {
			return nil, fmt.Errorf("filter %q: unknown column %q", pair, field)
		}
		value, err := queryir.ParseValue(col, raw)
		if err != nil {
			return nil, fmt.Errorf("filter %q: %w", pair, err)
		}
		preds = append(preds, &queryir.Equals{Field: field, Value: value})
	}
	return queryir.Where(preds...), nil
}

func showList(ctx context.Context, st *store.Store, formatter *OutputFormatter) error {
	infos, err := st.ListSnapshots(ctx)
	if err != nil {
		return storeFailure(formatter, err)
	}
	if infos == nil {
		infos = []store.SnapshotInfo{}
	}
	if formatter.JSON() {
		return formatter.Success(infos)
	}
	if len(infos) == 0 {
		fmt.Fprintln(formatter.Writer, "No snapshots stored.")
		return nil
	}
	for _, info := range infos {
		fmt.Fprintf(formatter.Writer, "%d  %s  %s  %d classes\n", info.Seq, info.ID, info.EngineVersion, info.ClassCount)
	}
	return nil
}

// latestSnapshot returns the most recently written snapshot ID.
func latestSnapshot(ctx context.Context, st *store.Store) (string, error) {
	infos, err := st.ListSnapshots(ctx)
	if err != nil {
		return "", err
	}
	if len(infos) == 0 {
		return "", fmt.Errorf("no snapshots stored: %w", store.ErrNotFound)
	}
	return infos[len(infos)-1].ID, nil
}

func storeFailure(formatter *OutputFormatter, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, err.Error(), nil)
	}
	return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
}

func printClassView(formatter *OutputFormatter, view ir.ClassView) {
	w := formatter.Writer
	fmt.Fprintln(w, view.QualifiedName)
	fmt.Fprintf(w, "  id:          %s\n", view.ID)
	fmt.Fprintf(w, "  simple name: %s\n", view.SimpleName)
	if view.Location != nil {
		fmt.Fprintf(w, "  location:    %s\n", view.Location)
	}
	for _, a := range view.Attrs {
		fmt.Fprintf(w, "  %s (%s) = %s\n", a.Name, a.Kind, a.Value)
	}
}
