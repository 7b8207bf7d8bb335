package class

import (
	"fmt"
	"sync/atomic"

	"github.com/roach88/metaclass/internal/attrs"
	"github.com/roach88/metaclass/internal/ir"
)

// Class is a mutable class object.
//
// Identity is by reference: two *Class values are the same class only if
// they are the same pointer. The base list is fixed at construction; all
// other mutation goes through the attribute store.
type Class struct {
	meta  *Class
	name  string
	bases []*Class
	attrs *attrs.Store
	host  Host

	loc atomic.Pointer[locationResult] // written once, see location.go
}

func (*Class) Kind() ir.Kind { return ir.KindClass }

// New creates a class whose meta-class is meta and whose bases are bases, in
// order. The slice is copied.
//
// New trusts its caller: bases must already be cycle-free and non-nil. Use
// NewChecked when the list comes from an untrusted source.
//
// The new class inherits its host from meta; with a nil meta (or a meta
// without a host) it gets DefaultHost.
func New(meta *Class, name string, bases []*Class) *Class {
	c := &Class{
		meta:  meta,
		name:  name,
		bases: append([]*Class(nil), bases...),
		attrs: attrs.New(),
		host:  DefaultHost,
	}
	if meta != nil && meta.host != nil {
		c.host = meta.host
	}
	return c
}

// NewChecked is New plus construction-time validation of the base list.
// A nil base yields INVALID_HIERARCHY, a repeated base DUPLICATE_BASE.
//
// Cycles cannot be created through either constructor, since a base must
// exist before the class that lists it.
func NewChecked(meta *Class, name string, bases []*Class) (*Class, error) {
	seen := make(map[*Class]int, len(bases))
	for i, b := range bases {
		if b == nil {
			return nil, &HierarchyError{
				Code:      ErrCodeInvalidHierarchy,
				ClassName: name,
				Index:     i,
				Message:   "base is not a class",
			}
		}
		if first, dup := seen[b]; dup {
			return nil, &HierarchyError{
				Code:      ErrCodeDuplicateBase,
				ClassName: name,
				Index:     i,
				Message:   fmt.Sprintf("duplicate base %s (first at index %d)", b.debugName(), first),
			}
		}
		seen[b] = i
	}
	return New(meta, name, bases), nil
}

// Bootstrap creates a root meta-class served by host. The returned class is
// its own meta-class, the way "type" is an instance of itself.
func Bootstrap(name string, host Host) *Class {
	c := New(nil, name, nil)
	c.meta = c
	if host != nil {
		c.host = host
	}
	return c
}

// BootstrapRoots creates the two root classes of an object model, both
// served by host: typ is its own meta-class and derives from object, and
// object's meta-class is typ.
func BootstrapRoots(typeName, objectName string, host Host) (typ, object *Class) {
	object = New(nil, objectName, nil)
	typ = New(nil, typeName, []*Class{object})
	typ.meta = typ
	object.meta = typ
	if host != nil {
		typ.host = host
		object.host = host
	}
	return typ, object
}

// Name returns the construction-time name. It is a diagnostic label only;
// program-visible names live in the __name__ and __qualname__ attributes.
func (c *Class) Name() string {
	return c.name
}

// Meta returns the meta-class.
func (c *Class) Meta() *Class {
	return c.meta
}

// Bases returns a copy of the direct base classes in declaration order.
func (c *Class) Bases() []*Class {
	return append([]*Class(nil), c.bases...)
}

// Attrs returns the class's own attribute store.
func (c *Class) Attrs() *attrs.Store {
	return c.attrs
}

// Host returns the runtime collaborator serving this class.
func (c *Class) Host() Host {
	return c.host
}

// String renders a diagnostic form without running user code.
func (c *Class) String() string {
	return "<class " + c.debugName() + ">"
}

func (c *Class) debugName() string {
	if c == nil {
		return "<nil>"
	}
	if n := c.QualifiedName(); n != UnnamedClass {
		return n
	}
	if c.name != "" {
		return c.name
	}
	return UnnamedClass
}

// Instance is a plain object whose runtime class is a *Class.
type Instance struct {
	class *Class
	attrs *attrs.Store
}

// NewInstance creates an instance of c with an empty attribute store.
func NewInstance(c *Class) *Instance {
	return &Instance{class: c, attrs: attrs.New()}
}

func (*Instance) Kind() ir.Kind { return ir.KindInstance }

// Class returns the instance's runtime class.
func (i *Instance) Class() *Class {
	return i.class
}

// Attrs returns the instance's own attribute store.
func (i *Instance) Attrs() *attrs.Store {
	return i.attrs
}
