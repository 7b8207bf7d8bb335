package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/metaclass/internal/class"
	"github.com/roach88/metaclass/internal/interop"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Step     int    // index into Scenario.Steps, or FinalStep
	Type     string // assertion type for categorization
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	if e.Step == FinalStep {
		fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	} else {
		fmt.Fprintf(&buf, "Assertion failed at step %d: %s\n", e.Step, e.Type)
	}
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// check evaluates one assertion and records the outcome. Only a class that
// cannot be found is returned as an error.
func (h *Harness) check(step int, a Assertion) error {
	c, err := h.engine.Lookup(a.Class)
	if err != nil {
		return fmt.Errorf("%s: %w", a.Type, err)
	}
	var target *class.Class
	if a.Target != "" {
		if target, err = h.engine.Lookup(a.Target); err != nil {
			return fmt.Errorf("%s: %w", a.Type, err)
		}
	}

	got, err := h.evaluate(a.Type, c, target)
	if err != nil {
		return fmt.Errorf("%s %s: %w", a.Type, a.Class, err)
	}

	result := Check{
		Step:   step,
		Type:   a.Type,
		Class:  a.Class,
		Target: a.Target,
		Got:    got,
		Want:   a.Want,
		Pass:   got == a.Want,
	}
	var failure error
	if !result.Pass {
		failure = &AssertionError{
			Step:     step,
			Type:     a.Type,
			Expected: describeCheck(a.Class, a.Target, a.Want),
			Actual:   describeCheck(a.Class, a.Target, got),
		}
	}
	h.result.AddCheck(result, failure)
	return nil
}

// evaluate answers an assertion through the meta-object protocol.
func (h *Harness) evaluate(kind string, c, target *class.Class) (any, error) {
	var meta interop.MetaObject = c
	switch kind {
	case AssertSimpleName:
		return meta.MetaSimpleName(), nil
	case AssertQualifiedName:
		return meta.MetaQualifiedName(), nil
	case AssertIsSubtype:
		return h.engine.IsSubtype(c, target), nil
	case AssertIsInstance:
		return h.engine.IsInstance(class.NewInstance(c), target), nil
	case AssertHasSourceLocation:
		return meta.HasSourceLocation(), nil
	case AssertSourceLocation:
		loc, err := meta.SourceLocation()
		if interop.IsUnsupported(err) {
			return "", nil
		}
		if err != nil {
			return nil, err
		}
		return lineLocation(loc), nil
	}
	return nil, fmt.Errorf("unknown assertion type %q", kind)
}

func describeCheck(className, target string, v any) string {
	if target != "" {
		return fmt.Sprintf("%s vs %s = %v", className, target, v)
	}
	return fmt.Sprintf("%s = %q", className, fmt.Sprint(v))
}
