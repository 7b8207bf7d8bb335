package queryir

import (
	"fmt"
	"strconv"

	"github.com/roach88/metaclass/internal/ir"
)

// ColumnKind is the storage type of a column.
type ColumnKind int

const (
	ColumnText ColumnKind = iota
	ColumnInt
)

func (k ColumnKind) String() string {
	if k == ColumnInt {
		return "int"
	}
	return "text"
}

// Column is one queryable column of a source.
type Column struct {
	Name     string
	Kind     ColumnKind
	Nullable bool
}

// Source is a stored table and its deterministic ordering.
type Source struct {
	Name    string
	Columns []Column
	OrderBy []string // column names, ascending
}

// Column looks up a column by name.
func (s Source) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns every column name in declaration order.
func (s Source) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Source names.
const (
	SourceClasses    = "classes"
	SourceClassBases = "class_bases"
	SourceClassAttrs = "class_attrs"
)

var sources = map[string]Source{
	SourceClasses: {
		Name: SourceClasses,
		Columns: []Column{
			{Name: "snapshot_id"},
			{Name: "id"},
			{Name: "seq", Kind: ColumnInt},
			{Name: "name"},
			{Name: "simple_name"},
			{Name: "qualified_name"},
			{Name: "meta_id"},
			{Name: "shape_id"},
			{Name: "ancestors"},
			{Name: "location", Nullable: true},
		},
		OrderBy: []string{"seq", "id"},
	},
	SourceClassBases: {
		Name: SourceClassBases,
		Columns: []Column{
			{Name: "snapshot_id"},
			{Name: "class_id"},
			{Name: "position", Kind: ColumnInt},
			{Name: "base_id"},
		},
		OrderBy: []string{"class_id", "position"},
	},
	SourceClassAttrs: {
		Name: SourceClassAttrs,
		Columns: []Column{
			{Name: "snapshot_id"},
			{Name: "class_id"},
			{Name: "position", Kind: ColumnInt},
			{Name: "name"},
			{Name: "kind"},
			{Name: "value"},
		},
		OrderBy: []string{"class_id", "position"},
	},
}

// LookupSource returns the source with the given name.
func LookupSource(name string) (Source, bool) {
	s, ok := sources[name]
	return s, ok
}

// ParseValue converts command-line text into a literal for col.
func ParseValue(col Column, raw string) (ir.Value, error) {
	if col.Kind == ColumnInt {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("column %s wants an integer, got %q", col.Name, raw)
		}
		return ir.Int(n), nil
	}
	return ir.Str(raw), nil
}
