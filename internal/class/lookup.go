package class

import (
	"errors"
	"fmt"

	"github.com/roach88/metaclass/internal/ir"
)

// GetAttribute is the program-level attribute lookup.
//
// Unlike SimpleName and the meta-object methods it is overridable:
//
//  1. If the receiver's runtime class defines __getattribute__, that hook
//     decides the result.
//  2. Otherwise the name is resolved along the receiver's linearization:
//     the instance's own attributes (instances only), then the class and
//     its ancestors, then, for class receivers, the meta-class chain.
//  3. If that fails with ErrNoAttribute and the runtime class defines
//     __getattr__, the hook gets a last chance.
//
// Hooks are called as hook(receiver, name). Only builtin hooks can run;
// any other hook value is an error.
func GetAttribute(obj ir.Value, name string) (ir.Value, error) {
	var (
		typ  *Class
		self *attrsOwner
	)
	switch val := obj.(type) {
	case *Class:
		typ = val.host.ClassOf(val)
		self = &attrsOwner{class: val}
	case *Instance:
		typ = val.class
		self = &attrsOwner{instance: val}
	default:
		return nil, &AttributeError{Receiver: ir.Repr(obj), Name: name}
	}

	var (
		v   ir.Value
		err error
	)
	if hook, ok := lookupMRO(typ, GetAttributeHook); ok {
		v, err = callHook(hook, obj, name)
	} else {
		v, err = self.resolve(typ, name)
	}
	if err == nil || !errors.Is(err, ErrNoAttribute) {
		return v, err
	}

	if hook, ok := lookupMRO(typ, GetAttrHook); ok {
		return callHook(hook, obj, name)
	}
	return nil, err
}

// SetAttribute assigns name on a class or instance receiver.
func SetAttribute(obj ir.Value, name string, v ir.Value) error {
	switch val := obj.(type) {
	case *Class:
		val.attrs.Set(name, v)
	case *Instance:
		val.attrs.Set(name, v)
	default:
		return fmt.Errorf("cannot set attribute %q on %s", name, ir.Repr(obj))
	}
	return nil
}

type attrsOwner struct {
	class    *Class
	instance *Instance
}

func (o *attrsOwner) resolve(typ *Class, name string) (ir.Value, error) {
	if o.instance != nil {
		if v, ok := o.instance.attrs.Get(name); ok {
			return v, nil
		}
		if v, ok := lookupMRO(o.instance.class, name); ok {
			return v, nil
		}
		return nil, &AttributeError{Receiver: "instance of " + o.instance.class.debugName(), Name: name}
	}

	if v, ok := lookupMRO(o.class, name); ok {
		return v, nil
	}
	if typ != nil && typ != o.class {
		if v, ok := lookupMRO(typ, name); ok {
			return v, nil
		}
	}
	return nil, &AttributeError{Receiver: o.class.String(), Name: name}
}

// lookupMRO finds name in c's own store, then in its ancestors.
func lookupMRO(c *Class, name string) (ir.Value, bool) {
	if c == nil {
		return nil, false
	}
	if v, ok := c.attrs.Get(name); ok {
		return v, true
	}
	var (
		found ir.Value
		ok    bool
	)
	walkAncestors(c, func(a *Class) bool {
		found, ok = a.attrs.Get(name)
		return !ok
	})
	return found, ok
}

func callHook(hook ir.Value, obj ir.Value, name string) (ir.Value, error) {
	b, ok := hook.(*ir.Builtin)
	if !ok {
		return nil, fmt.Errorf("attribute hook %s is not callable", ir.Repr(hook))
	}
	v, err := b.Call(obj, ir.Str(name))
	if err != nil {
		return nil, fmt.Errorf("%s(%q): %w", b.Name, name, err)
	}
	if v == nil {
		v = ir.None{}
	}
	return v, nil
}
