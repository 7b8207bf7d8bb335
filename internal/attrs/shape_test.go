package attrs

import (
	"fmt"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/metaclass/internal/ir"
)

func TestShape_TransitionsAreShared(t *testing.T) {
	a := EmptyShape().With("x").With("y")
	b := EmptyShape().With("x").With("y")

	assert.Same(t, a, b)
	assert.Equal(t, []string{"x", "y"}, a.Keys())
	assert.Same(t, EmptyShape().With("x"), a.Parent())
}

func TestShape_OrderMatters(t *testing.T) {
	xy := EmptyShape().With("x").With("y")
	yx := EmptyShape().With("y").With("x")

	assert.NotSame(t, xy, yx)
	assert.NotEqual(t, xy.ID(), yx.ID())
}

func TestShape_WithExistingKey(t *testing.T) {
	s := EmptyShape().With("x")
	assert.Same(t, s, s.With("x"))
}

func TestShape_Without(t *testing.T) {
	s := EmptyShape().With("a").With("b").With("c")

	without := s.Without("b")
	assert.Equal(t, []string{"a", "c"}, without.Keys())
	assert.Same(t, EmptyShape().With("a").With("c"), without)
	assert.False(t, without.Has("b"))

	assert.Same(t, s, s.Without("missing"))
}

func TestShape_KeysIsACopy(t *testing.T) {
	s := EmptyShape().With("a")
	keys := s.Keys()
	keys[0] = "mutated"
	assert.Equal(t, []string{"a"}, s.Keys())
}

func TestShape_IDStable(t *testing.T) {
	s := EmptyShape().With("__name__").With("speak")
	assert.Equal(t, s.ID(), s.ID())
	assert.Len(t, s.ID(), 64)
	assert.Equal(t, 0, EmptyShape().Len())
	assert.Equal(t, 2, s.Len())
}

func TestShape_UnusedTransitionsAreDropped(t *testing.T) {
	root := EmptyShape()
	before := root.transitionCount()

	for i := range 1000 {
		s := New()
		s.Set(fmt.Sprintf("dropped-%d", i), nil)
	}

	assert.Eventually(t, func() bool {
		runtime.GC()
		return root.transitionCount() <= before
	}, 5*time.Second, 10*time.Millisecond)
}

func TestShape_LiveTransitionSurvivesGC(t *testing.T) {
	s := New()
	s.Set("kept-key", ir.Int(1))

	runtime.GC()
	runtime.GC()

	assert.Same(t, s.Shape(), EmptyShape().With("kept-key"))
	runtime.KeepAlive(s)
}
