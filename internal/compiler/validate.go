package compiler

import (
	"fmt"
	"regexp"

	"github.com/roach88/metaclass/internal/ir"
)

// Validation error codes (E200-E299)
const (
	// General validation errors (E200)
	ErrUnsupportedIRType = "E200" // unsupported IR type for validation

	// ClassDecl errors (E201-E209)
	ErrInvalidClassName = "E201" // class name must be an identifier
	ErrInvalidQualName  = "E202" // qualname must be dotted identifiers
	ErrDuplicateBase    = "E203" // same base listed twice
	ErrSelfBase         = "E204" // class lists itself as a base
	ErrDuplicateAttr    = "E205" // attribute assigned twice
	ErrInvalidFunction  = "E206" // function def/params malformed
)

var (
	identRe    = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	qualNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_<>][A-Za-z0-9_<>]*)*$`)
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate validates a compiled declaration against schema rules.
// Returns all errors found (does not fail-fast).
func Validate(v any) []ValidationError {
	switch decl := v.(type) {
	case *ir.ClassDecl:
		return validateClassDecl(decl)
	case ir.ClassDecl:
		return validateClassDecl(&decl)
	default:
		return []ValidationError{{
			Field:   "type",
			Message: fmt.Sprintf("unsupported IR type: %T", v),
			Code:    ErrUnsupportedIRType,
		}}
	}
}

func validateClassDecl(decl *ir.ClassDecl) []ValidationError {
	var errs []ValidationError
	line := 0
	if decl.Loc != nil {
		line = decl.Loc.StartLine
	}

	// E201
	if !identRe.MatchString(decl.Name) {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("invalid class name %q", decl.Name),
			Code:    ErrInvalidClassName,
			Line:    line,
		})
	}

	// E202
	if decl.QualName != "" && !qualNameRe.MatchString(decl.QualName) {
		errs = append(errs, ValidationError{
			Field:   "qualname",
			Message: fmt.Sprintf("invalid qualified name %q", decl.QualName),
			Code:    ErrInvalidQualName,
			Line:    line,
		})
	}

	seenBases := make(map[string]int, len(decl.Bases))
	for i, base := range decl.Bases {
		field := fmt.Sprintf("bases[%d]", i)
		// E204
		if base == decl.Name {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("class %q cannot derive from itself", decl.Name),
				Code:    ErrSelfBase,
				Line:    line,
			})
		}
		// E203
		if first, dup := seenBases[base]; dup {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("duplicate base %q (first at bases[%d])", base, first),
				Code:    ErrDuplicateBase,
				Line:    line,
			})
			continue
		}
		seenBases[base] = i
	}

	seenAttrs := make(map[string]bool, len(decl.Attrs))
	for i, attr := range decl.Attrs {
		field := fmt.Sprintf("attrs[%d]", i)
		// E205
		if seenAttrs[attr.Name] {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("duplicate attribute %q", attr.Name),
				Code:    ErrDuplicateAttr,
				Line:    line,
			})
		}
		seenAttrs[attr.Name] = true

		if fn, ok := attr.Value.(*ir.Func); ok {
			errs = append(errs, validateFunc(fn, field)...)
		}
	}

	return errs
}

// validateFunc checks E206: identifier name, identifier params, no repeats.
func validateFunc(fn *ir.Func, field string) []ValidationError {
	var errs []ValidationError
	line := 0
	if loc, ok := fn.Location(); ok {
		line = loc.StartLine
	}

	if !identRe.MatchString(fn.Name) {
		errs = append(errs, ValidationError{
			Field:   field + ".def",
			Message: fmt.Sprintf("invalid function name %q", fn.Name),
			Code:    ErrInvalidFunction,
			Line:    line,
		})
	}

	seen := make(map[string]bool, len(fn.Params))
	for j, p := range fn.Params {
		switch {
		case !identRe.MatchString(p):
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s.params[%d]", field, j),
				Message: fmt.Sprintf("invalid parameter name %q", p),
				Code:    ErrInvalidFunction,
				Line:    line,
			})
		case seen[p]:
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s.params[%d]", field, j),
				Message: fmt.Sprintf("duplicate parameter %q in %s", p, fn.Name),
				Code:    ErrInvalidFunction,
				Line:    line,
			})
		}
		seen[p] = true
	}
	return errs
}
