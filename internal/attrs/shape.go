package attrs

import (
	"runtime"
	"slices"
	"sync"
	"weak"

	"github.com/roach88/metaclass/internal/ir"
)

// Shape is an immutable attribute layout: an ordered set of keys.
type Shape struct {
	parent *Shape
	keys   []string       // insertion order, never mutated
	index  map[string]int // key -> position in keys

	idOnce sync.Once
	id     string

	mu          sync.Mutex
	transitions map[string]weak.Pointer[Shape] // key appended -> child shape
}

// transition identifies a cached child for removal once it is collected.
type transition struct {
	parent *Shape
	key    string
	child  weak.Pointer[Shape]
}

// emptyShape is the root of the process-wide transition tree.
var emptyShape = &Shape{index: map[string]int{}}

// EmptyShape returns the shape with no keys.
func EmptyShape() *Shape {
	return emptyShape
}

// With returns the shape obtained by appending key. If key is already
// present the receiver is returned unchanged. Transitions are cached, so the
// same parent and key produce the same *Shape while anything holds it.
// The tree references children weakly; a layout no store uses is dropped.
func (s *Shape) With(key string) *Shape {
	if _, ok := s.index[key]; ok {
		return s
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if wp, ok := s.transitions[key]; ok {
		if child := wp.Value(); child != nil {
			return child
		}
	}

	keys := make([]string, len(s.keys), len(s.keys)+1)
	copy(keys, s.keys)
	keys = append(keys, key)

	index := make(map[string]int, len(keys))
	for i, k := range keys {
		index[k] = i
	}

	child := &Shape{parent: s, keys: keys, index: index}
	if s.transitions == nil {
		s.transitions = make(map[string]weak.Pointer[Shape])
	}
	wp := weak.Make(child)
	s.transitions[key] = wp
	runtime.AddCleanup(child, forgetTransition, transition{parent: s, key: key, child: wp})
	return child
}

// forgetTransition removes a collected child unless the key has since been
// rebound to a newer one.
func forgetTransition(t transition) {
	t.parent.mu.Lock()
	defer t.parent.mu.Unlock()
	if t.parent.transitions[t.key] == t.child {
		delete(t.parent.transitions, t.key)
	}
}

// transitionCount returns the number of cached children.
func (s *Shape) transitionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transitions)
}

// Without returns the shape with key removed, rebuilt from the root so it
// lands on the canonical shape for the remaining key order.
func (s *Shape) Without(key string) *Shape {
	if _, ok := s.index[key]; !ok {
		return s
	}
	next := emptyShape
	for _, k := range s.keys {
		if k != key {
			next = next.With(k)
		}
	}
	return next
}

// Has reports whether key is part of the layout.
func (s *Shape) Has(key string) bool {
	_, ok := s.index[key]
	return ok
}

// Len returns the number of keys.
func (s *Shape) Len() int {
	return len(s.keys)
}

// Keys returns a copy of the keys in insertion order.
func (s *Shape) Keys() []string {
	return slices.Clone(s.keys)
}

// Parent returns the shape this one was derived from (nil for the root).
func (s *Shape) Parent() *Shape {
	return s.parent
}

// ID returns the content ID of the layout (see ir.ShapeID).
func (s *Shape) ID() string {
	s.idOnce.Do(func() {
		s.id = ir.ShapeID(s.keys)
	})
	return s.id
}
