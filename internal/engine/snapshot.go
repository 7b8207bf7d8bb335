package engine

import (
	"fmt"

	"github.com/roach88/metaclass/internal/class"
	"github.com/roach88/metaclass/internal/ir"
)

// Snapshot captures every registered class, builtins included, as a
// content-addressed ir.Snapshot.
//
// Views are built from the meta-object protocol and raw storage reads
// only; no attribute hook can run while a snapshot is taken.
func (e *Engine) Snapshot() (ir.Snapshot, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	views := make([]ir.ClassView, 0, len(e.order))
	for _, ent := range e.order {
		view, err := e.viewLocked(ent)
		if err != nil {
			return ir.Snapshot{}, fmt.Errorf("snapshot class %s: %w", ent.cls.Name(), err)
		}
		views = append(views, view)
	}

	id, err := ir.SnapshotID(views)
	if err != nil {
		return ir.Snapshot{}, err
	}
	return ir.Snapshot{
		ID:            id,
		EngineVersion: ir.EngineVersion,
		Classes:       views,
	}, nil
}

// View returns the tooling view of a single registered class.
func (e *Engine) View(c *class.Class) (ir.ClassView, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ent, ok := e.byClass[c]
	if !ok {
		return ir.ClassView{}, NewUnknownClassError(c.Name())
	}
	return e.viewLocked(ent)
}

func (e *Engine) viewLocked(ent *entry) (ir.ClassView, error) {
	c := ent.cls
	view := ir.ClassView{
		ID:            ent.id,
		Seq:           ent.seq,
		Name:          c.Name(),
		SimpleName:    c.MetaSimpleName(),
		QualifiedName: c.MetaQualifiedName(),
		MetaID:        e.idLocked(c.Meta()),
		Bases:         []string{},
		Ancestors:     []string{},
		ShapeID:       c.Attrs().Shape().ID(),
		Attrs:         []ir.AttrView{},
	}
	for _, b := range c.Bases() {
		view.Bases = append(view.Bases, e.idLocked(b))
	}
	for _, a := range class.Ancestors(c) {
		view.Ancestors = append(view.Ancestors, e.idLocked(a))
	}
	if c.HasSourceLocation() {
		loc, err := c.SourceLocation()
		if err != nil {
			return ir.ClassView{}, err
		}
		view.Location = &loc
	}

	for name, v := range c.Attrs().All() {
		value, err := e.encodeValueLocked(v)
		if err != nil {
			return ir.ClassView{}, fmt.Errorf("attribute %q: %w", name, err)
		}
		view.Attrs = append(view.Attrs, ir.AttrView{
			Name:  name,
			Kind:  v.Kind().String(),
			Value: value,
		})
	}
	return view, nil
}

// encodeValueLocked renders an attribute value as canonical JSON. Classes
// and instances are referenced by registry ID.
func (e *Engine) encodeValueLocked(v ir.Value) (string, error) {
	b, err := ir.MarshalCanonical(e.docLocked(v))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (e *Engine) docLocked(v ir.Value) any {
	switch val := v.(type) {
	case *class.Class:
		return map[string]any{"kind": "class", "ref": e.idLocked(val)}
	case *class.Instance:
		return map[string]any{"kind": "instance", "class": e.idLocked(val.Class())}
	case ir.Tuple:
		elems := make([]any, len(val))
		for i, elem := range val {
			elems[i] = e.docLocked(elem)
		}
		return elems
	}
	return v
}

// idLocked returns c's registry ID, or "" for unregistered classes.
func (e *Engine) idLocked(c *class.Class) string {
	if ent, ok := e.byClass[c]; ok {
		return ent.id
	}
	return ""
}
