package engine

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/roach88/metaclass/internal/class"
	"github.com/roach88/metaclass/internal/compiler"
	"github.com/roach88/metaclass/internal/interop"
	"github.com/roach88/metaclass/internal/ir"
)

// Names of the builtin classes every engine starts with.
const (
	TypeClass            = "type"
	ObjectClass          = "object"
	StrClass             = "str"
	IntClass             = "int"
	BoolClass            = "bool"
	NoneClass            = "NoneType"
	TupleClass           = "tuple"
	FunctionClass        = "function"
	BuiltinFunctionClass = "builtin_function"
)

// builtinLocation marks definitions that come from the runtime itself.
var builtinLocation = ir.Location{Source: "<builtin>", StartLine: 1, StartColumn: 1, Internal: true}

// entry is one registered class.
type entry struct {
	id      string
	seq     int64
	cls     *class.Class
	builtin bool
}

// Engine is the runtime host and class registry.
type Engine struct {
	mu      sync.RWMutex
	byName  map[string]*entry
	byClass map[*class.Class]*entry
	order   []*entry // definition order

	clock  Sequencer
	ids    IDGenerator
	oracle *class.Oracle
	probe  interop.LocationProbe
	logger *slog.Logger

	subtypeCache bool

	typ     *class.Class
	object  *class.Class
	scalars map[ir.Kind]*class.Class
}

var (
	_ class.Host     = (*Engine)(nil)
	_ class.Subtyper = (*Engine)(nil)
)

// Option allows configuration of engine parameters.
type Option func(*Engine)

// WithSubtypeCache enables or disables the subtype oracle's cache.
// Default: enabled.
func WithSubtypeCache(enabled bool) Option {
	return func(e *Engine) {
		e.subtypeCache = enabled
	}
}

// WithExposeInternalSources makes locations from internal declarations
// (including the builtin classes) visible to tooling. Default: hidden.
func WithExposeInternalSources(expose bool) Option {
	return func(e *Engine) {
		e.probe.ExposeInternalSources = expose
	}
}

// WithIDGenerator sets the class ID generator. Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(e *Engine) {
		e.ids = g
	}
}

// WithClock sets the definition clock. Default: NewClock().
func WithClock(c Sequencer) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an engine with the builtin classes registered.
func New(opts ...Option) *Engine {
	e := &Engine{
		byName:       make(map[string]*entry),
		byClass:      make(map[*class.Class]*entry),
		clock:        NewClock(),
		ids:          UUIDv7Generator{},
		logger:       slog.Default(),
		subtypeCache: true,
		scalars:      make(map[ir.Kind]*class.Class),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.oracle = class.NewOracle(e.subtypeCache)
	e.bootstrap()
	return e
}

// bootstrap registers type, object and the scalar classes.
func (e *Engine) bootstrap() {
	e.typ, e.object = class.BootstrapRoots(TypeClass, ObjectClass, e)
	initFn := ir.NewFunc("__init__", "object.__init__", []string{"self"}, &builtinLocation)

	e.register(e.typ, true)
	setNames(e.typ, TypeClass, TypeClass)
	e.register(e.object, true)
	setNames(e.object, ObjectClass, ObjectClass)
	e.object.Attrs().Set("__init__", initFn)

	for _, s := range []struct {
		kind ir.Kind
		name string
	}{
		{ir.KindStr, StrClass},
		{ir.KindInt, IntClass},
		{ir.KindBool, BoolClass},
		{ir.KindNone, NoneClass},
		{ir.KindTuple, TupleClass},
		{ir.KindFunc, FunctionClass},
		{ir.KindBuiltin, BuiltinFunctionClass},
	} {
		bases := []*class.Class{e.object}
		if s.kind == ir.KindBool {
			bases = []*class.Class{e.scalars[ir.KindInt]}
		}
		c := class.New(e.typ, s.name, bases)
		setNames(c, s.name, s.name)
		e.scalars[s.kind] = c
		e.register(c, true)
	}
}

func setNames(c *class.Class, name, qualName string) {
	c.Attrs().Set(class.NameAttr, ir.Str(name))
	c.Attrs().Set(class.QualNameAttr, ir.Str(qualName))
}

// register adds c to the registry. Callers outside bootstrap hold e.mu.
func (e *Engine) register(c *class.Class, builtin bool) *entry {
	ent := &entry{
		id:      e.ids.Generate(),
		seq:     e.clock.Next(),
		cls:     c,
		builtin: builtin,
	}
	e.byName[c.Name()] = ent
	e.byClass[c] = ent
	e.order = append(e.order, ent)
	return ent
}

// Load materializes decls, bases first, and returns the new classes in
// declaration order.
//
// The whole batch is checked before anything is created: an unknown base,
// a name clash or an inheritance cycle fails the batch with no classes
// registered. A declaration with no bases derives from object.
func (e *Engine) Load(decls []ir.ClassDecl) ([]*class.Class, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, d := range decls {
		if _, exists := e.byName[d.Name]; exists {
			return nil, &RuntimeError{
				Code:    ErrCodeDuplicateClass,
				Message: "class is already defined",
				Class:   d.Name,
			}
		}
	}

	if issues := compiler.CheckHierarchy(decls, e.definedLocked); len(issues) > 0 {
		return nil, issueError(issues[0])
	}
	ordered, err := compiler.Order(decls)
	if err != nil {
		return nil, &RuntimeError{Code: ErrCodeInvalidHierarchy, Message: "cannot order declarations", Err: err}
	}

	created := make(map[string]*class.Class, len(ordered))
	for _, d := range ordered {
		c, err := e.materializeLocked(d)
		if err != nil {
			e.rollbackLocked(created)
			return nil, err
		}
		created[d.Name] = c
	}

	out := make([]*class.Class, len(decls))
	for i, d := range decls {
		out[i] = created[d.Name]
	}
	return out, nil
}

// Define is Load for a single declaration.
func (e *Engine) Define(decl ir.ClassDecl) (*class.Class, error) {
	classes, err := e.Load([]ir.ClassDecl{decl})
	if err != nil {
		return nil, err
	}
	return classes[0], nil
}

func (e *Engine) definedLocked(name string) bool {
	_, ok := e.byName[name]
	return ok
}

func (e *Engine) materializeLocked(d ir.ClassDecl) (*class.Class, error) {
	bases := make([]*class.Class, 0, len(d.Bases))
	for _, name := range d.Bases {
		ent, ok := e.byName[name]
		if !ok {
			return nil, &RuntimeError{
				Code:    ErrCodeUnknownBase,
				Message: fmt.Sprintf("base %q is not defined", name),
				Class:   d.Name,
			}
		}
		bases = append(bases, ent.cls)
	}
	if len(bases) == 0 {
		bases = append(bases, e.object)
	}

	c, err := class.NewChecked(e.typ, d.Name, bases)
	if err != nil {
		return nil, &RuntimeError{
			Code:    ErrCodeInvalidHierarchy,
			Message: "invalid base list",
			Class:   d.Name,
			Err:     err,
		}
	}

	qualName := d.QualName
	if qualName == "" {
		qualName = d.Name
	}
	setNames(c, d.Name, qualName)
	for _, a := range d.Attrs {
		c.Attrs().Set(a.Name, a.Value)
	}

	ent := e.register(c, false)
	e.logger.Debug("class materialized",
		"class", d.Name,
		"id", ent.id,
		"seq", ent.seq,
		"bases", len(bases),
		"attrs", c.Attrs().Len(),
	)
	return c, nil
}

// rollbackLocked unregisters classes created by a failed Load.
func (e *Engine) rollbackLocked(created map[string]*class.Class) {
	kept := e.order[:0]
	for _, ent := range e.order {
		if created[ent.cls.Name()] == ent.cls {
			delete(e.byName, ent.cls.Name())
			delete(e.byClass, ent.cls)
			continue
		}
		kept = append(kept, ent)
	}
	e.order = kept
}

func issueError(issue compiler.HierarchyIssue) *RuntimeError {
	code := ErrCodeInvalidHierarchy
	switch issue.Code {
	case compiler.IssueUnknownBase:
		code = ErrCodeUnknownBase
	case compiler.IssueDuplicateClass:
		code = ErrCodeDuplicateClass
	}
	return &RuntimeError{
		Code:    code,
		Message: issue.Message,
		Class:   issue.Class,
		Err:     issue,
	}
}

// Lookup returns the class registered under name.
func (e *Engine) Lookup(name string) (*class.Class, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ent, ok := e.byName[name]
	if !ok {
		return nil, NewUnknownClassError(name)
	}
	return ent.cls, nil
}

// ID returns the registry ID of c.
func (e *Engine) ID(c *class.Class) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ent, ok := e.byClass[c]
	if !ok {
		return "", false
	}
	return ent.id, true
}

// Classes returns every registered class in definition order. With
// includeBuiltins=false only declared classes are returned.
func (e *Engine) Classes(includeBuiltins bool) []*class.Class {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*class.Class, 0, len(e.order))
	for _, ent := range e.order {
		if ent.builtin && !includeBuiltins {
			continue
		}
		out = append(out, ent.cls)
	}
	return out
}

// Type returns the root meta-class.
func (e *Engine) Type() *class.Class {
	return e.typ
}

// Object returns the root base class.
func (e *Engine) Object() *class.Class {
	return e.object
}

// ClassOf resolves the runtime class of v.
func (e *Engine) ClassOf(v ir.Value) *class.Class {
	switch val := v.(type) {
	case nil:
		return nil
	case *class.Class:
		if val == nil {
			return nil
		}
		return val.Meta()
	case *class.Instance:
		if val == nil {
			return nil
		}
		return val.Class()
	}
	return e.scalars[v.Kind()]
}

// HasLocation reports whether v carries a location visible under the
// engine's internal-source policy.
func (e *Engine) HasLocation(v ir.Value) bool {
	return e.probe.HasLocation(v)
}

// LocationOf returns v's visible location.
func (e *Engine) LocationOf(v ir.Value) (ir.Location, error) {
	return e.probe.LocationOf(v)
}

// IsSubtype answers through the engine's oracle.
func (e *Engine) IsSubtype(candidate, target *class.Class) bool {
	return e.oracle.IsSubtype(candidate, target)
}

// IsInstance reports whether v is an instance of target. A nil target has
// no instances.
func (e *Engine) IsInstance(v ir.Value, target *class.Class) bool {
	if target == nil {
		return false
	}
	return target.IsMetaInstance(v)
}

// OracleStats returns the subtype cache counters.
func (e *Engine) OracleStats() class.OracleStats {
	return e.oracle.Stats()
}
