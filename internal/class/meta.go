package class

import (
	"github.com/roach88/metaclass/internal/interop"
	"github.com/roach88/metaclass/internal/ir"
)

var _ interop.MetaObject = (*Class)(nil)

// IsMetaObject is always true: every class represents a category of
// instances.
func (c *Class) IsMetaObject() bool {
	return true
}

// IsMetaInstance reports whether v's runtime class is a subtype of c.
//
// The runtime class comes from the host; the subtype check goes through the
// host's Subtyper when it has one.
func (c *Class) IsMetaInstance(v ir.Value) bool {
	if c == nil {
		return false
	}
	cls := c.host.ClassOf(v)
	if s, ok := c.host.(Subtyper); ok {
		return s.IsSubtype(cls, c)
	}
	return IsSubtype(cls, c)
}

// MetaSimpleName is SimpleName. It must stay on the raw storage path.
func (c *Class) MetaSimpleName() string {
	return c.SimpleName()
}

// MetaQualifiedName is QualifiedName.
func (c *Class) MetaQualifiedName() string {
	return c.QualifiedName()
}
