package compiler

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/metaclass/internal/ir"
)

// CompileClasses compiles every class declared under the top-level "class"
// struct of v, in declaration order. A value without a "class" field yields
// no declarations.
func CompileClasses(v cue.Value) ([]ir.ClassDecl, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	classesVal := v.LookupPath(cue.ParsePath("class"))
	if !classesVal.Exists() {
		return nil, nil
	}

	iter, err := classesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var decls []ir.ClassDecl
	for iter.Next() {
		decl, err := CompileClass(iter.Value())
		if err != nil {
			return nil, err
		}
		decls = append(decls, *decl)
	}
	return decls, nil
}

// CompileFile reads and compiles a single CUE file. Positions in errors and
// function locations refer to path.
func CompileFile(ctx *cue.Context, path string) ([]ir.ClassDecl, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return CompileBytes(ctx, path, data)
}

// CompileBytes compiles CUE source whose positions are reported against
// filename.
func CompileBytes(ctx *cue.Context, filename string, data []byte) ([]ir.ClassDecl, error) {
	v := ctx.CompileBytes(data, cue.Filename(filename))
	return CompileClasses(v)
}

// CompileClass parses one class struct into an ir.ClassDecl.
//
// The class name is the struct's label:
//
//	class: Dog: {
//		qualname: "zoo.Dog"
//		bases: ["Animal"]
//		attrs: {
//			legs: 4
//			speak: {def: "speak", params: ["self"]}
//		}
//	}
func CompileClass(v cue.Value) (*ir.ClassDecl, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	decl := &ir.ClassDecl{Bases: []string{}, Attrs: []ir.AttrDecl{}}

	labels := v.Path().Selectors()
	if len(labels) > 0 {
		decl.Name = labels[len(labels)-1].Unquoted()
	}
	decl.Loc = locationOf(v, false)

	var err error
	if decl.QualName, err = optionalString(v, "qualname"); err != nil {
		return nil, err
	}
	if decl.Internal, err = optionalBool(v, "internal"); err != nil {
		return nil, err
	}
	if decl.Loc != nil {
		decl.Loc.Internal = decl.Internal
	}

	basesVal := v.LookupPath(cue.ParsePath("bases"))
	if basesVal.Exists() {
		list, err := basesVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for list.Next() {
			base, err := list.Value().String()
			if err != nil {
				return nil, &CompileError{
					Field:   "bases",
					Message: "base must be a class name string",
					Pos:     list.Value().Pos(),
				}
			}
			decl.Bases = append(decl.Bases, base)
		}
	}

	qualPrefix := decl.QualName
	if qualPrefix == "" {
		qualPrefix = decl.Name
	}

	attrsVal := v.LookupPath(cue.ParsePath("attrs"))
	if attrsVal.Exists() {
		iter, err := attrsVal.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			name := iter.Selector().Unquoted()
			val, err := compileValue(iter.Value(), qualPrefix, decl.Internal)
			if err != nil {
				return nil, err
			}
			decl.Attrs = append(decl.Attrs, ir.AttrDecl{Name: name, Value: val})
		}
	}

	return decl, nil
}

// compileValue converts a concrete CUE attribute value to a runtime value.
// Floats are forbidden; structs are only allowed as function definitions.
func compileValue(v cue.Value, qualPrefix string, internal bool) (ir.Value, error) {
	if !v.IsConcrete() {
		return nil, &CompileError{
			Field:   "attrs",
			Message: "attribute value must be concrete",
			Pos:     v.Pos(),
		}
	}

	switch v.Kind() {
	case cue.NullKind:
		return ir.None{}, nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.Bool(b), nil
	case cue.IntKind:
		i, err := v.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.Int(i), nil
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.Str(s), nil
	case cue.ListKind:
		list, err := v.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		tuple := ir.Tuple{}
		for list.Next() {
			elem, err := compileValue(list.Value(), qualPrefix, internal)
			if err != nil {
				return nil, err
			}
			tuple = append(tuple, elem)
		}
		return tuple, nil
	case cue.StructKind:
		return compileFunc(v, qualPrefix, internal)
	case cue.FloatKind:
		return nil, &CompileError{
			Field:   "attrs",
			Message: "float values are forbidden - use int instead",
			Pos:     v.Pos(),
		}
	default:
		return nil, &CompileError{
			Field:   "attrs",
			Message: fmt.Sprintf("unsupported value kind: %v", v.Kind()),
			Pos:     v.Pos(),
		}
	}
}

// compileFunc parses {def: name, params: [...]} into an ir.Func located at
// the struct's position.
func compileFunc(v cue.Value, qualPrefix string, internal bool) (*ir.Func, error) {
	defVal := v.LookupPath(cue.ParsePath("def"))
	if !defVal.Exists() {
		return nil, &CompileError{
			Field:   "attrs",
			Message: "struct values must be function definitions with a def field",
			Pos:     v.Pos(),
		}
	}
	name, err := defVal.String()
	if err != nil {
		return nil, &CompileError{Field: "def", Message: "def must be a string", Pos: defVal.Pos()}
	}

	var params []string
	paramsVal := v.LookupPath(cue.ParsePath("params"))
	if paramsVal.Exists() {
		list, err := paramsVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for list.Next() {
			p, err := list.Value().String()
			if err != nil {
				return nil, &CompileError{Field: "params", Message: "parameter must be a string", Pos: list.Value().Pos()}
			}
			params = append(params, p)
		}
	}

	return ir.NewFunc(name, qualPrefix+"."+name, params, locationOf(v, internal)), nil
}

// locationOf converts a value's CUE position into an ir.Location.
func locationOf(v cue.Value, internal bool) *ir.Location {
	pos := v.Pos()
	if !pos.IsValid() {
		return nil
	}
	loc := &ir.Location{
		Source:      pos.Filename(),
		StartLine:   pos.Line(),
		StartColumn: pos.Column(),
		Internal:    internal,
	}
	if src := v.Source(); src != nil {
		if end := src.End(); end.IsValid() {
			loc.EndLine = end.Line()
			loc.EndColumn = end.Column()
		}
	}
	return loc
}

func optionalString(v cue.Value, field string) (string, error) {
	f := v.LookupPath(cue.ParsePath(field))
	if !f.Exists() {
		return "", nil
	}
	s, err := f.String()
	if err != nil {
		return "", &CompileError{Field: field, Message: "must be a string", Pos: f.Pos()}
	}
	return s, nil
}

func optionalBool(v cue.Value, field string) (bool, error) {
	f := v.LookupPath(cue.ParsePath(field))
	if !f.Exists() {
		return false, nil
	}
	b, err := f.Bool()
	if err != nil {
		return false, &CompileError{Field: field, Message: "must be a bool", Pos: f.Pos()}
	}
	return b, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
