package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/metaclass/internal/ir"
)

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestClass creates a class view with minimal required fields.
func createTestClass(id, name string, seq int64, bases ...string) ir.ClassView {
	return ir.ClassView{
		ID:            id,
		Seq:           seq,
		Name:          name,
		SimpleName:    name,
		QualifiedName: name,
		MetaID:        "type",
		Bases:         append([]string{}, bases...),
		Ancestors:     append([]string{id}, bases...),
		ShapeID:       ir.ShapeID(nil),
		Attrs:         []ir.AttrView{},
	}
}

// newSnapshot hashes the classes into a snapshot.
func newSnapshot(t *testing.T, classes ...ir.ClassView) ir.Snapshot {
	t.Helper()
	id, err := ir.SnapshotID(classes)
	if err != nil {
		t.Fatalf("SnapshotID() failed: %v", err)
	}
	return ir.Snapshot{ID: id, EngineVersion: ir.EngineVersion, Classes: classes}
}

// testSnapshot is a small zoo: Animal with a location and two attributes,
// Dog deriving Animal.
func testSnapshot(t *testing.T) ir.Snapshot {
	t.Helper()
	animal := createTestClass("c-animal", "Animal", 1)
	animal.QualifiedName = "zoo.Animal"
	animal.Location = &ir.Location{Source: "zoo.cue", StartLine: 3, StartColumn: 1}
	animal.Attrs = []ir.AttrView{
		{Name: "__name__", Kind: "str", Value: `"Animal"`},
		{Name: "legs", Kind: "int", Value: "4"},
	}
	animal.ShapeID = ir.ShapeID([]string{"__name__", "legs"})

	dog := createTestClass("c-dog", "Dog", 2, "c-animal")
	dog.QualifiedName = "zoo.Dog"
	dog.Attrs = []ir.AttrView{
		{Name: "__name__", Kind: "str", Value: `"Dog"`},
		{Name: "legs", Kind: "int", Value: "4"},
		{Name: "sound", Kind: "str", Value: `"woof"`},
	}
	dog.ShapeID = ir.ShapeID([]string{"__name__", "legs", "sound"})

	return newSnapshot(t, animal, dog)
}
