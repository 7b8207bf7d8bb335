package class

import "github.com/roach88/metaclass/internal/ir"

// Attribute names with special meaning to the class machinery.
const (
	NameAttr         = "__name__"
	QualNameAttr     = "__qualname__"
	GetAttributeHook = "__getattribute__"
	GetAttrHook      = "__getattr__"
)

// UnnamedClass is returned by SimpleName and QualifiedName when the
// attribute is missing or not text.
const UnnamedClass = "unnamed-class"

// SimpleName returns the __name__ attribute read directly from storage, or
// UnnamedClass.
//
// Safe to call from any program state: it takes no hooks, runs no user code
// and has no side effects.
func (c *Class) SimpleName() string {
	return c.rawName(NameAttr)
}

// QualifiedName returns the __qualname__ attribute read directly from
// storage, or UnnamedClass. Same guarantees as SimpleName.
func (c *Class) QualifiedName() string {
	return c.rawName(QualNameAttr)
}

func (c *Class) rawName(attr string) string {
	if c == nil {
		return UnnamedClass
	}
	v, ok := c.attrs.Get(attr)
	if !ok {
		return UnnamedClass
	}
	s, ok := ir.CoerceText(v)
	if !ok {
		return UnnamedClass
	}
	return s
}
