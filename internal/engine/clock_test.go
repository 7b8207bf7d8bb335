package engine

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/metaclass/internal/ir"
)

// stepSequencer counts in steps of ten so tests can tell it from Clock.
type stepSequencer struct {
	mu  sync.Mutex
	cur int64
}

func (s *stepSequencer) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur += 10
	return s.cur
}

func (s *stepSequencer) Current() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

func TestClock_StampsDefinitionOrder(t *testing.T) {
	e := newTestEngine(t)
	classes, err := e.Load(zooDecls())
	require.NoError(t, err)
	dog, animal := classes[0], classes[1]

	objectView, err := e.View(e.Object())
	require.NoError(t, err)
	animalView, err := e.View(animal)
	require.NoError(t, err)
	dogView, err := e.View(dog)
	require.NoError(t, err)

	// Builtins come first, then bases before the classes deriving them,
	// regardless of declaration order.
	assert.Less(t, objectView.Seq, animalView.Seq)
	assert.Equal(t, animalView.Seq+1, dogView.Seq)

	snap, err := e.Snapshot()
	require.NoError(t, err)
	for i := 1; i < len(snap.Classes); i++ {
		assert.Less(t, snap.Classes[i-1].Seq, snap.Classes[i].Seq)
	}
}

func TestClock_CustomSequencer(t *testing.T) {
	seq := &stepSequencer{}
	e := newTestEngine(t, WithClock(seq))

	a, err := e.Define(ir.ClassDecl{Name: "A"})
	require.NoError(t, err)
	b, err := e.Define(ir.ClassDecl{Name: "B", Bases: []string{"A"}})
	require.NoError(t, err)

	aView, err := e.View(a)
	require.NoError(t, err)
	bView, err := e.View(b)
	require.NoError(t, err)

	assert.Equal(t, int64(0), aView.Seq%10)
	assert.Equal(t, aView.Seq+10, bView.Seq)
	assert.Equal(t, bView.Seq, seq.Current())
}

func TestClock_ConcurrentDefinesGetUniqueSeqs(t *testing.T) {
	e := newTestEngine(t)
	const n = 50

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.Define(ir.ClassDecl{Name: fmt.Sprintf("C%d", i)})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	seen := make(map[int64]bool)
	for _, c := range e.Classes(false) {
		view, err := e.View(c)
		require.NoError(t, err)
		assert.False(t, seen[view.Seq], "seq %d issued twice", view.Seq)
		seen[view.Seq] = true
	}
	assert.Len(t, seen, n)
}
