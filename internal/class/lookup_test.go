package class

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/metaclass/internal/ir"
)

func TestGetAttribute_Linearization(t *testing.T) {
	root := newNamed(t, "Root")
	root.Attrs().Set("greet", ir.Str("root"))
	root.Attrs().Set("legs", ir.Int(0))
	a := newNamed(t, "A", root)
	b := newNamed(t, "B", root)
	b.Attrs().Set("greet", ir.Str("b"))
	x := newNamed(t, "X", a, b)

	v, err := GetAttribute(x, "legs")
	require.NoError(t, err)
	assert.Equal(t, ir.Int(0), v)

	// Depth-first, left to right: Root (via A) wins over B.
	v, err = GetAttribute(x, "greet")
	require.NoError(t, err)
	assert.Equal(t, ir.Str("root"), v)
}

func TestGetAttribute_Instance(t *testing.T) {
	c := newNamed(t, "Point")
	c.Attrs().Set("dims", ir.Int(2))
	p := NewInstance(c)
	require.NoError(t, SetAttribute(p, "x", ir.Int(1)))

	v, err := GetAttribute(p, "x")
	require.NoError(t, err)
	assert.Equal(t, ir.Int(1), v)

	v, err = GetAttribute(p, "dims")
	require.NoError(t, err)
	assert.Equal(t, ir.Int(2), v)

	_, err = GetAttribute(p, "z")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoAttribute)
	assert.Contains(t, err.Error(), `instance of Point has no attribute "z"`)
}

func TestGetAttribute_FallsBackToMeta(t *testing.T) {
	typ := Bootstrap("type", nil)
	typ.Attrs().Set("mro", ir.Str("type.mro"))
	c := New(typ, "C", nil)

	v, err := GetAttribute(c, "mro")
	require.NoError(t, err)
	assert.Equal(t, ir.Str("type.mro"), v)

	_, err = GetAttribute(c, "missing")
	assert.ErrorIs(t, err, ErrNoAttribute)
}

func TestGetAttribute_GetAttributeHook(t *testing.T) {
	c := newNamed(t, "Proxy")
	var seen []ir.Value
	c.Attrs().Set(GetAttributeHook, ir.NewBuiltin("proxy_get", func(args ...ir.Value) (ir.Value, error) {
		seen = args
		return ir.Str("proxied"), nil
	}))
	p := NewInstance(c)

	v, err := GetAttribute(p, "anything")
	require.NoError(t, err)
	assert.Equal(t, ir.Str("proxied"), v)
	require.Len(t, seen, 2)
	assert.Same(t, p, seen[0])
	assert.Equal(t, ir.Str("anything"), seen[1])
}

func TestGetAttribute_GetAttrFallback(t *testing.T) {
	c := newNamed(t, "Lazy")
	c.Attrs().Set("real", ir.Int(1))
	c.Attrs().Set(GetAttrHook, ir.NewBuiltin("lazy_getattr", func(args ...ir.Value) (ir.Value, error) {
		return ir.Str("computed:" + string(args[1].(ir.Str))), nil
	}))
	p := NewInstance(c)

	v, err := GetAttribute(p, "real")
	require.NoError(t, err)
	assert.Equal(t, ir.Int(1), v)

	v, err = GetAttribute(p, "virtual")
	require.NoError(t, err)
	assert.Equal(t, ir.Str("computed:virtual"), v)
}

func TestGetAttribute_HookRaisingNoAttributeFallsThrough(t *testing.T) {
	c := newNamed(t, "Strict")
	c.Attrs().Set(GetAttributeHook, ir.NewBuiltin("strict_get", func(args ...ir.Value) (ir.Value, error) {
		return nil, &AttributeError{Receiver: "Strict", Name: string(args[1].(ir.Str))}
	}))
	c.Attrs().Set(GetAttrHook, ir.NewBuiltin("fallback", func(...ir.Value) (ir.Value, error) {
		return ir.Int(7), nil
	}))

	v, err := GetAttribute(NewInstance(c), "x")
	require.NoError(t, err)
	assert.Equal(t, ir.Int(7), v)
}

func TestGetAttribute_HookErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	c := newNamed(t, "Broken")
	c.Attrs().Set(GetAttributeHook, ir.NewBuiltin("broken_get", func(...ir.Value) (ir.Value, error) {
		return nil, boom
	}))

	_, err := GetAttribute(NewInstance(c), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNoAttribute)
}

func TestGetAttribute_NonCallableHook(t *testing.T) {
	c := newNamed(t, "Odd")
	c.Attrs().Set(GetAttributeHook, ir.Int(3))

	_, err := GetAttribute(NewInstance(c), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not callable")
}

func TestGetAttribute_UnsupportedReceiver(t *testing.T) {
	_, err := GetAttribute(ir.Int(1), "real")
	assert.ErrorIs(t, err, ErrNoAttribute)
	assert.Error(t, SetAttribute(ir.Str("s"), "x", ir.Int(1)))
}
