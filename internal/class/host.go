package class

import (
	"github.com/roach88/metaclass/internal/interop"
	"github.com/roach88/metaclass/internal/ir"
)

// Host is the runtime the class machinery calls out to.
//
// ClassOf resolves the runtime class of an arbitrary value, returning nil
// for values it does not know. The embedded Probe answers the generic
// "does this value carry a source location" question.
//
// A Host may additionally implement Subtyper; the meta-object protocol then
// routes instance checks through it (typically a cached Oracle).
type Host interface {
	ClassOf(v ir.Value) *Class
	interop.Probe
}

// Subtyper is an optional Host capability.
type Subtyper interface {
	IsSubtype(candidate, target *Class) bool
}

// DefaultHost resolves classes to their meta-class and instances to their
// class, and uses interop.DefaultProbe. Scalar values have no class.
var DefaultHost Host = defaultHost{Probe: interop.DefaultProbe}

type defaultHost struct {
	interop.Probe
}

func (defaultHost) ClassOf(v ir.Value) *Class {
	switch val := v.(type) {
	case *Class:
		if val == nil {
			return nil
		}
		return val.meta
	case *Instance:
		if val == nil {
			return nil
		}
		return val.class
	}
	return nil
}
