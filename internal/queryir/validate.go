package queryir

import (
	"fmt"

	"github.com/roach88/metaclass/internal/ir"
)

// ValidationResult lists every problem found in a query.
type ValidationResult struct {
	Valid    bool
	Problems []string
}

// Validate checks a query against its source:
//  1. From names a known source
//  2. Fields and predicate columns exist in that source
//  3. Equals literals are ir.Str or ir.Int and match the column kind
//  4. Param names are non-empty
//
// Validate is a pure function with no side effects.
func Validate(q Select) ValidationResult {
	v := &validator{problems: []string{}}
	v.validateSelect(q)
	return ValidationResult{
		Valid:    len(v.problems) == 0,
		Problems: v.problems,
	}
}

type validator struct {
	source   Source
	problems []string
}

func (v *validator) addProblem(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) validateSelect(q Select) {
	source, ok := LookupSource(q.From)
	if !ok {
		v.addProblem("unknown source %q", q.From)
		return
	}
	v.source = source

	seen := make(map[string]bool, len(q.Fields))
	for _, f := range q.Fields {
		if _, ok := source.Column(f); !ok {
			v.addProblem("unknown column %q in %s", f, source.Name)
		}
		if seen[f] {
			v.addProblem("column %q selected twice", f)
		}
		seen[f] = true
	}

	v.validatePredicate(q.Filter)
}

func (v *validator) validatePredicate(p Predicate) {
	switch pred := p.(type) {
	case nil:
	case *Equals:
		v.validateEquals(pred)
	case *Param:
		v.column(pred.Field)
		if pred.Name == "" {
			v.addProblem("parameter for column %q has no name", pred.Field)
		}
	case *And:
		for _, sub := range pred.Predicates {
			v.validatePredicate(sub)
		}
	default:
		v.addProblem("unsupported predicate type %T", p)
	}
}

func (v *validator) validateEquals(eq *Equals) {
	col, ok := v.column(eq.Field)
	if !ok {
		return
	}
	switch eq.Value.(type) {
	case ir.Str:
		if col.Kind != ColumnText {
			v.addProblem("column %q is %s, compared to a string", eq.Field, col.Kind)
		}
	case ir.Int:
		if col.Kind != ColumnInt {
			v.addProblem("column %q is %s, compared to an integer", eq.Field, col.Kind)
		}
	case nil, ir.None:
		v.addProblem("column %q compared to NULL; NULL never equals anything", eq.Field)
	default:
		v.addProblem("column %q compared to unsupported %s value", eq.Field, eq.Value.Kind())
	}
}

func (v *validator) column(name string) (Column, bool) {
	col, ok := v.source.Column(name)
	if !ok {
		v.addProblem("unknown column %q in %s", name, v.source.Name)
	}
	return col, ok
}
