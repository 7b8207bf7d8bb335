package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"

	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/metaclass/internal/class"
	"github.com/roach88/metaclass/internal/compiler"
	"github.com/roach88/metaclass/internal/engine"
	"github.com/roach88/metaclass/internal/ir"
	"github.com/roach88/metaclass/internal/store"
	"github.com/roach88/metaclass/internal/testutil"
)

// Harness executes one scenario against one engine.
type Harness struct {
	engine *engine.Engine
	logger *slog.Logger
	result *Result
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh engine and a fresh in-memory store.
// Execution flow:
//  1. Compile and validate every spec, then load all declarations
//  2. Apply steps in order, checking expect steps where they appear
//  3. Check the final assertions
//  4. Snapshot the engine, round-trip it through the store and render the
//     declared classes
//
// Failed checks are reported in the result. A returned error means the
// scenario itself could not be executed.
func Run(scenario *Scenario) (*Result, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cache := true
	if scenario.Options.SubtypeCache != nil {
		cache = *scenario.Options.SubtypeCache
	}
	eng := engine.New(
		engine.WithIDGenerator(testutil.NewSequentialIDGenerator("class")),
		engine.WithClock(testutil.NewDeterministicClock()),
		engine.WithLogger(logger),
		engine.WithSubtypeCache(cache),
		engine.WithExposeInternalSources(scenario.Options.ExposeInternalSources),
	)

	h := &Harness{engine: eng, logger: logger, result: NewResult()}

	if err := h.loadSpecs(scenario); err != nil {
		return nil, fmt.Errorf("failed to load specs: %w", err)
	}

	for i, step := range scenario.Steps {
		if err := h.executeStep(i, step); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}

	for _, a := range scenario.Assertions {
		if err := h.check(FinalStep, a); err != nil {
			return nil, err
		}
	}

	snap, err := h.persistSnapshot(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to persist snapshot: %w", err)
	}
	h.result.Snapshot = snap

	for _, c := range eng.Classes(false) {
		h.result.Classes = append(h.result.Classes, report(c))
	}
	return h.result, nil
}

// loadSpecs compiles every spec with its path as written in the scenario,
// so locations do not depend on where the scenario lives.
func (h *Harness) loadSpecs(scenario *Scenario) error {
	ctx := cuecontext.New()
	var all []ir.ClassDecl
	for i, path := range scenario.SpecPaths() {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read spec: %w", err)
		}
		decls, err := compiler.CompileBytes(ctx, scenario.Specs[i], data)
		if err != nil {
			return fmt.Errorf("compile %s: %w", scenario.Specs[i], err)
		}
		for _, d := range decls {
			if err := firstValidationError(d); err != nil {
				return fmt.Errorf("%s: class %s: %w", scenario.Specs[i], d.Name, err)
			}
		}
		all = append(all, decls...)
	}
	if _, err := h.engine.Load(all); err != nil {
		return err
	}
	h.logger.Info("specs loaded", "scenario", scenario.Name, "classes", len(all))
	return nil
}

func firstValidationError(d ir.ClassDecl) error {
	if errs := compiler.Validate(d); len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func (h *Harness) executeStep(index int, step Step) error {
	switch {
	case step.Define != nil:
		return h.define(step.Define)
	case step.Set != nil:
		c, err := h.engine.Lookup(step.Set.Class)
		if err != nil {
			return err
		}
		v, err := convertValue(step.Set.Value, c.QualifiedName(), h.resolveClass)
		if err != nil {
			return fmt.Errorf("set %s.%s: %w", step.Set.Class, step.Set.Attr, err)
		}
		c.Attrs().Set(step.Set.Attr, v)
	case step.Delete != nil:
		c, err := h.engine.Lookup(step.Delete.Class)
		if err != nil {
			return err
		}
		if !c.Attrs().Delete(step.Delete.Attr) {
			return fmt.Errorf("delete %s.%s: no such attribute", step.Delete.Class, step.Delete.Attr)
		}
	case step.Expect != nil:
		return h.check(index, *step.Expect)
	}
	return nil
}

func (h *Harness) define(step *DefineStep) error {
	decl := ir.ClassDecl{
		Name:     step.Name,
		QualName: step.QualName,
		Bases:    step.Bases,
	}
	prefix := step.QualName
	if prefix == "" {
		prefix = step.Name
	}
	for _, a := range step.Attrs {
		v, err := convertValue(a.Value, prefix, h.resolveClass)
		if err != nil {
			return fmt.Errorf("define %s.%s: %w", step.Name, a.Name, err)
		}
		decl.Attrs = append(decl.Attrs, ir.AttrDecl{Name: a.Name, Value: v})
	}
	if err := firstValidationError(decl); err != nil {
		return fmt.Errorf("define %s: %w", step.Name, err)
	}
	_, err := h.engine.Define(decl)
	return err
}

func (h *Harness) resolveClass(name string) (ir.Value, error) {
	c, err := h.engine.Lookup(name)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// persistSnapshot writes the engine snapshot to a fresh in-memory store and
// reads it back.
func (h *Harness) persistSnapshot(ctx context.Context) (ir.Snapshot, error) {
	snap, err := h.engine.Snapshot()
	if err != nil {
		return ir.Snapshot{}, err
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return ir.Snapshot{}, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	if _, err := st.WriteSnapshot(ctx, snap); err != nil {
		return ir.Snapshot{}, err
	}
	stored, err := st.ReadSnapshot(ctx, snap.ID)
	if err != nil {
		return ir.Snapshot{}, err
	}
	if !reflect.DeepEqual(stored, snap) {
		return ir.Snapshot{}, fmt.Errorf("snapshot %s changed in the store", snap.ID)
	}
	return stored, nil
}

// report renders a class through the meta-object protocol and raw reads.
func report(c *class.Class) ClassReport {
	r := ClassReport{
		Name:          c.Name(),
		SimpleName:    c.MetaSimpleName(),
		QualifiedName: c.MetaQualifiedName(),
		Bases:         []string{},
		Ancestors:     []string{},
		Attrs:         []AttrReport{},
	}
	for _, b := range c.Bases() {
		r.Bases = append(r.Bases, b.Name())
	}
	for _, a := range class.Ancestors(c) {
		r.Ancestors = append(r.Ancestors, a.Name())
	}
	if loc, err := c.SourceLocation(); err == nil {
		r.Location = lineLocation(loc)
	}
	for name, v := range c.Attrs().All() {
		r.Attrs = append(r.Attrs, AttrReport{Name: name, Kind: v.Kind().String(), Value: render(v)})
	}
	return r
}

// render converts a value to a canonical-JSON-friendly form. Functions
// render as their signature so golden files do not depend on columns.
func render(v ir.Value) any {
	switch val := v.(type) {
	case ir.None:
		return nil
	case ir.Str:
		return string(val)
	case ir.Int:
		return int64(val)
	case ir.Bool:
		return bool(val)
	case ir.Tuple:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = render(elem)
		}
		return out
	case *ir.Func:
		s := val.String()
		if loc, ok := val.Location(); ok {
			s += " @ " + lineLocation(loc)
		}
		return s
	case *ir.Builtin:
		return "<builtin " + val.Name + ">"
	case *class.Class:
		return val.String()
	case *class.Instance:
		return "<" + val.Class().Name() + " instance>"
	}
	return ir.Repr(v)
}

func lineLocation(loc ir.Location) string {
	return fmt.Sprintf("%s:%d", loc.Source, loc.StartLine)
}
