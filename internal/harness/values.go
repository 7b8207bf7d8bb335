package harness

import (
	"fmt"
	"slices"

	"github.com/roach88/metaclass/internal/ir"
)

// classResolver finds a class value by name.
type classResolver func(name string) (ir.Value, error)

// convertValue converts a YAML-parsed value to a runtime value. qualPrefix
// prefixes the qualified name of function values.
func convertValue(val any, qualPrefix string, resolve classResolver) (ir.Value, error) {
	switch v := val.(type) {
	case nil:
		return ir.None{}, nil
	case string:
		return ir.Str(v), nil
	case int:
		return ir.Int(int64(v)), nil
	case int64:
		return ir.Int(v), nil
	case bool:
		return ir.Bool(v), nil
	case float64:
		return nil, fmt.Errorf("floats are forbidden in attribute values: %v", v)
	case []any:
		tuple := make(ir.Tuple, len(v))
		for i, elem := range v {
			converted, err := convertValue(elem, qualPrefix, resolve)
			if err != nil {
				return nil, fmt.Errorf("list[%d]: %w", i, err)
			}
			tuple[i] = converted
		}
		return tuple, nil
	case map[string]any:
		return convertMapping(v, qualPrefix, resolve)
	default:
		return nil, fmt.Errorf("unsupported type %T", val)
	}
}

var (
	classRefKeys = []string{"class"}
	funcKeys     = []string{"def", "params", "source", "line", "column"}
)

func convertMapping(m map[string]any, qualPrefix string, resolve classResolver) (ir.Value, error) {
	switch {
	case m["class"] != nil:
		if err := checkKeys(m, classRefKeys); err != nil {
			return nil, err
		}
		name, ok := m["class"].(string)
		if !ok {
			return nil, fmt.Errorf("class reference must be a string")
		}
		return resolve(name)
	case m["def"] != nil:
		if err := checkKeys(m, funcKeys); err != nil {
			return nil, err
		}
		return convertFunc(m, qualPrefix)
	default:
		return nil, fmt.Errorf("mapping must be a class reference {class: ...} or a function {def: ...}")
	}
}

func convertFunc(m map[string]any, qualPrefix string) (*ir.Func, error) {
	name, ok := m["def"].(string)
	if !ok || name == "" {
		return nil, fmt.Errorf("def must be a non-empty string")
	}

	var params []string
	if raw, ok := m["params"]; ok {
		list, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("params must be a list")
		}
		for i, p := range list {
			s, ok := p.(string)
			if !ok {
				return nil, fmt.Errorf("params[%d] must be a string", i)
			}
			params = append(params, s)
		}
	}

	var loc *ir.Location
	if source, ok := m["source"].(string); ok && source != "" {
		line, _ := m["line"].(int)
		column, _ := m["column"].(int)
		loc = &ir.Location{Source: source, StartLine: line, StartColumn: column}
		if !loc.IsValid() {
			return nil, fmt.Errorf("function %s: location needs a positive line", name)
		}
	}

	qualName := name
	if qualPrefix != "" {
		qualName = qualPrefix + "." + name
	}
	return ir.NewFunc(name, qualName, params, loc), nil
}

func checkKeys(m map[string]any, allowed []string) error {
	for _, k := range ir.SortedKeys(m) {
		if !slices.Contains(allowed, k) {
			return fmt.Errorf("unknown key %q (allowed: %v)", k, allowed)
		}
	}
	return nil
}
