package queryir

import "github.com/roach88/metaclass/internal/ir"

// Predicate is a row filter. Sealed: only types in this package implement
// it.
type Predicate interface {
	predicateNode()
}

// Select reads columns from one source.
//
//	Select{
//	  From:   "classes",
//	  Fields: []string{"id", "qualified_name"},
//	  Filter: Where(
//	    &Param{Field: "snapshot_id", Name: "snapshot"},
//	    &Equals{Field: "simple_name", Value: ir.Str("Dog")},
//	  ),
//	}
//
// compiles to
//
//	SELECT id, qualified_name FROM classes
//	WHERE snapshot_id = ? AND simple_name = ?
//	ORDER BY seq ASC, id COLLATE BINARY ASC
type Select struct {
	From   string    // source name
	Fields []string  // returned columns in order; empty means every column
	Filter Predicate // nil means no filter
}

// Equals matches rows whose column equals a literal.
type Equals struct {
	Field string
	Value ir.Value // ir.Str or ir.Int
}

func (*Equals) predicateNode() {}

// Param matches rows whose column equals a named value bound at compile
// time, such as the snapshot being read.
type Param struct {
	Field string
	Name  string
}

func (*Param) predicateNode() {}

// And matches rows that satisfy every predicate. Empty means always true.
type And struct {
	Predicates []Predicate
}

func (*And) predicateNode() {}

// Where combines predicates, dropping nils. It returns nil for no
// predicates and the predicate itself for exactly one.
func Where(preds ...Predicate) Predicate {
	var kept []Predicate
	for _, p := range preds {
		if p != nil {
			kept = append(kept, p)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	default:
		return &And{Predicates: kept}
	}
}
