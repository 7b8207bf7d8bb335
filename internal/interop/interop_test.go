package interop

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/metaclass/internal/ir"
)

type fakeLocatable struct {
	loc *ir.Location
}

func (fakeLocatable) Kind() ir.Kind { return ir.KindClass }

func (f fakeLocatable) HasSourceLocation() bool { return f.loc != nil }

func (f fakeLocatable) SourceLocation() (ir.Location, error) {
	if f.loc == nil {
		return ir.Location{}, Unsupported("SourceLocation", "fake")
	}
	return *f.loc, nil
}

func TestUnsupportedMessageError(t *testing.T) {
	err := Unsupported("SourceLocation", "class")
	assert.Equal(t, "unsupported message SourceLocation for class", err.Error())
	assert.True(t, IsUnsupported(err))
	assert.True(t, IsUnsupported(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsUnsupported(errors.New("other")))

	var ue *UnsupportedMessageError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "SourceLocation", ue.Message)

	assert.Equal(t, "unsupported message X", Unsupported("X", "").Error())
}

func TestLocationProbe_Func(t *testing.T) {
	loc := &ir.Location{Source: "zoo.cue", StartLine: 3, StartColumn: 5}

	got, err := DefaultProbe.LocationOf(ir.NewFunc("speak", "", nil, loc))
	require.NoError(t, err)
	assert.Equal(t, *loc, got)
	assert.True(t, DefaultProbe.HasLocation(ir.NewFunc("speak", "", nil, loc)))

	assert.False(t, DefaultProbe.HasLocation(ir.NewFunc("speak", "", nil, nil)))
}

func TestLocationProbe_NonLocatableValues(t *testing.T) {
	for _, v := range []ir.Value{nil, ir.None{}, ir.Str("x"), ir.Int(1), ir.NewBuiltin("len", nil)} {
		_, err := DefaultProbe.LocationOf(v)
		assert.True(t, IsUnsupported(err), "value %s", ir.Repr(v))
	}
}

func TestLocationProbe_InvalidLocation(t *testing.T) {
	f := ir.NewFunc("f", "", nil, &ir.Location{Source: "", StartLine: 1})
	assert.False(t, DefaultProbe.HasLocation(f))
}

func TestLocationProbe_InternalHiddenByDefault(t *testing.T) {
	f := ir.NewFunc("f", "", nil, &ir.Location{Source: "<builtin>", StartLine: 1, Internal: true})

	assert.False(t, DefaultProbe.HasLocation(f))
	assert.True(t, LocationProbe{ExposeInternalSources: true}.HasLocation(f))
}

func TestLocationProbe_Locatable(t *testing.T) {
	loc := ir.Location{Source: "a.cue", StartLine: 9}

	got, err := DefaultProbe.LocationOf(fakeLocatable{loc: &loc})
	require.NoError(t, err)
	assert.Equal(t, loc, got)

	assert.False(t, DefaultProbe.HasLocation(fakeLocatable{}))
}
