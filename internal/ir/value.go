package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the runtime category of a Value.
type Kind uint8

const (
	KindNone Kind = iota
	KindStr
	KindInt
	KindBool
	KindTuple
	KindFunc
	KindBuiltin
	KindClass
	KindInstance
)

var kindNames = [...]string{
	KindNone:     "none",
	KindStr:      "str",
	KindInt:      "int",
	KindBool:     "bool",
	KindTuple:    "tuple",
	KindFunc:     "func",
	KindBuiltin:  "builtin",
	KindClass:    "class",
	KindInstance: "instance",
}

// String returns the lower-case kind name used in snapshots and CLI output.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Value is any runtime value that can live in an attribute store.
//
// The scalar kinds are implemented here. Class and instance values are
// implemented by the class package; ir only knows their Kind.
type Value interface {
	Kind() Kind
}

// None is the absent/null runtime value.
type None struct{}

func (None) Kind() Kind { return KindNone }

// Str is a text value.
type Str string

func (Str) Kind() Kind { return KindStr }

// Int is an integer value. Always int64; floats are not part of the model.
type Int int64

func (Int) Kind() Kind { return KindInt }

// Bool is a boolean value.
type Bool bool

func (Bool) Kind() Kind { return KindBool }

// Tuple is an immutable ordered sequence of values.
type Tuple []Value

func (Tuple) Kind() Kind { return KindTuple }

// Func is a user-defined function. It is the only built-in value kind that
// may carry a source location.
type Func struct {
	Name     string
	QualName string
	Params   []string
	Loc      *Location // nil when the definition site is unknown
}

func (*Func) Kind() Kind { return KindFunc }

// NewFunc creates a Func defined at loc. loc may be nil.
func NewFunc(name, qualName string, params []string, loc *Location) *Func {
	if qualName == "" {
		qualName = name
	}
	return &Func{
		Name:     name,
		QualName: qualName,
		Params:   append([]string(nil), params...),
		Loc:      loc,
	}
}

// Location returns the definition site, if known.
func (f *Func) Location() (Location, bool) {
	if f == nil || f.Loc == nil {
		return Location{}, false
	}
	return *f.Loc, true
}

// String renders the function signature, e.g. "speak(self, volume)".
func (f *Func) String() string {
	return f.QualName + "(" + strings.Join(f.Params, ", ") + ")"
}

// Builtin is a native callable. Builtins never carry a source location.
//
// Hook attributes such as __getattribute__ are usually Builtins; they are
// only ever invoked by the overridable lookup pipeline, never by
// introspection.
type Builtin struct {
	Name string
	Fn   func(args ...Value) (Value, error)
}

func (*Builtin) Kind() Kind { return KindBuiltin }

// NewBuiltin wraps fn as a named native callable.
func NewBuiltin(name string, fn func(args ...Value) (Value, error)) *Builtin {
	return &Builtin{Name: name, Fn: fn}
}

// Call invokes the builtin. A nil Fn returns None.
func (b *Builtin) Call(args ...Value) (Value, error) {
	if b.Fn == nil {
		return None{}, nil
	}
	return b.Fn(args...)
}

// Repr renders a value for diagnostics. It never invokes user code: class
// and instance values are rendered by kind only.
func Repr(v Value) string {
	switch val := v.(type) {
	case nil:
		return "<nil>"
	case None:
		return "None"
	case Str:
		return strconv.Quote(string(val))
	case Int:
		return strconv.FormatInt(int64(val), 10)
	case Bool:
		if val {
			return "True"
		}
		return "False"
	case Tuple:
		parts := make([]string, len(val))
		for i, elem := range val {
			parts[i] = Repr(elem)
		}
		if len(parts) == 1 {
			return "(" + parts[0] + ",)"
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *Func:
		return "<function " + val.QualName + ">"
	case *Builtin:
		return "<built-in function " + val.Name + ">"
	default:
		return "<" + v.Kind().String() + ">"
	}
}
