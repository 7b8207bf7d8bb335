package attrs

import (
	"iter"
	"sync"

	"github.com/roach88/metaclass/internal/ir"
)

// Store is a class's own attribute storage.
//
// The zero value is not usable; create stores with New.
type Store struct {
	mu     sync.RWMutex
	shape  *Shape
	values map[string]ir.Value
}

// New creates an empty store.
func New() *Store {
	return &Store{
		shape:  emptyShape,
		values: make(map[string]ir.Value),
	}
}

// Get reads an attribute directly from storage.
//
// This is the side-effect-free path: no hooks, no descriptors, no user code.
// A missing attribute returns (nil, false).
func (s *Store) Get(name string) (ir.Value, bool) {
	s.mu.RLock()
	v, ok := s.values[name]
	s.mu.RUnlock()
	return v, ok
}

// Set inserts or overwrites an attribute. It is the only mutation entry
// point besides Delete. A nil value is stored as ir.None.
func (s *Store) Set(name string, v ir.Value) {
	if v == nil {
		v = ir.None{}
	}
	s.mu.Lock()
	s.shape = s.shape.With(name)
	s.values[name] = v
	s.mu.Unlock()
}

// Delete removes an attribute. Returns false if it was not present.
// Re-adding a deleted key appends it at the end of the insertion order.
func (s *Store) Delete(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[name]; !ok {
		return false
	}
	s.shape = s.shape.Without(name)
	delete(s.values, name)
	return true
}

// Len returns the number of attributes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// Shape returns the current layout.
func (s *Store) Shape() *Shape {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shape
}

// Keys yields attribute names in insertion order.
//
// The sequence is lazy and restartable: each range captures the layout at
// that moment and walks it, so concurrent mutation never breaks iteration.
func (s *Store) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, k := range s.Shape().keys {
			if !yield(k) {
				return
			}
		}
	}
}

// All yields (name, value) pairs in insertion order. A key deleted after
// iteration started is skipped.
func (s *Store) All() iter.Seq2[string, ir.Value] {
	return func(yield func(string, ir.Value) bool) {
		for _, k := range s.Shape().keys {
			v, ok := s.Get(k)
			if !ok {
				continue
			}
			if !yield(k, v) {
				return
			}
		}
	}
}
