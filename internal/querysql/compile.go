// Package querysql compiles queryir selects to parameterized SQLite SQL.
package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/metaclass/internal/ir"
	"github.com/roach88/metaclass/internal/queryir"
)

// SQLCompiler compiles queryir selects to parameterized SQL for SQLite.
//
// Every query ends with its source's ORDER BY, text columns compared with
// COLLATE BINARY. Values are always bound as parameters, never
// interpolated.
type SQLCompiler struct {
	// Params holds the values for Param predicates, by name.
	Params map[string]any
}

// NewSQLCompiler creates a new SQLCompiler.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{Params: make(map[string]any)}
}

// Bind sets a Param value and returns c for chaining.
func (c *SQLCompiler) Bind(name string, value any) *SQLCompiler {
	c.Params[name] = value
	return c
}

// Compile validates q and converts it to SQL with its parameters in
// placeholder order.
func (c *SQLCompiler) Compile(q queryir.Select) (string, []any, error) {
	if result := queryir.Validate(q); !result.Valid {
		return "", nil, fmt.Errorf("invalid query: %s", strings.Join(result.Problems, "; "))
	}
	source, _ := queryir.LookupSource(q.From)

	fields := q.Fields
	if len(fields) == 0 {
		fields = source.ColumnNames()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s", strings.Join(fields, ", "), source.Name)

	var params []any
	if q.Filter != nil {
		where, whereParams, err := c.compilePredicate(q.Filter)
		if err != nil {
			return "", nil, fmt.Errorf("compile filter: %w", err)
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
		params = whereParams
	}

	sb.WriteString(" ORDER BY ")
	sb.WriteString(orderBy(source))
	return sb.String(), params, nil
}

// orderBy renders the source's stable ordering.
func orderBy(source queryir.Source) string {
	parts := make([]string, len(source.OrderBy))
	for i, name := range source.OrderBy {
		col, _ := source.Column(name)
		if col.Kind == queryir.ColumnText {
			parts[i] = name + " COLLATE BINARY ASC"
		} else {
			parts[i] = name + " ASC"
		}
	}
	return strings.Join(parts, ", ")
}

func (c *SQLCompiler) compilePredicate(p queryir.Predicate) (string, []any, error) {
	switch pred := p.(type) {
	case nil:
		return "1 = 1", nil, nil
	case *queryir.Equals:
		param, err := valueToParam(pred.Value)
		if err != nil {
			return "", nil, fmt.Errorf("column %s: %w", pred.Field, err)
		}
		return pred.Field + " = ?", []any{param}, nil
	case *queryir.Param:
		val, ok := c.Params[pred.Name]
		if !ok {
			return "", nil, fmt.Errorf("parameter %q is not bound", pred.Name)
		}
		return pred.Field + " = ?", []any{val}, nil
	case *queryir.And:
		return c.compileAnd(pred)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func (c *SQLCompiler) compileAnd(and *queryir.And) (string, []any, error) {
	if len(and.Predicates) == 0 {
		return "1 = 1", nil, nil
	}

	parts := make([]string, 0, len(and.Predicates))
	var params []any
	for _, pred := range and.Predicates {
		sql, predParams, err := c.compilePredicate(pred)
		if err != nil {
			return "", nil, err
		}
		if _, nested := pred.(*queryir.And); nested {
			sql = "(" + sql + ")"
		}
		parts = append(parts, sql)
		params = append(params, predParams...)
	}
	return strings.Join(parts, " AND "), params, nil
}

// valueToParam converts a literal to its database/sql parameter.
func valueToParam(v ir.Value) (any, error) {
	switch val := v.(type) {
	case ir.Str:
		return string(val), nil
	case ir.Int:
		return int64(val), nil
	default:
		return nil, fmt.Errorf("unsupported literal for SQL parameter: %T", v)
	}
}
