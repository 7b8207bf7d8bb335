package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeID_Deterministic(t *testing.T) {
	a := ShapeID([]string{"__name__", "speak"})
	b := ShapeID([]string{"__name__", "speak"})
	assert.Equal(t, a, b)
	assert.Len(t, a, 64, "SHA-256 hex is 64 characters")
}

func TestShapeID_OrderSensitive(t *testing.T) {
	assert.NotEqual(t,
		ShapeID([]string{"a", "b"}),
		ShapeID([]string{"b", "a"}))
	assert.NotEqual(t, ShapeID(nil), ShapeID([]string{""}))
}

func TestSnapshotID_IgnoresSnapshotFields(t *testing.T) {
	classes := []ClassView{{
		ID:            "c1",
		Seq:           1,
		Name:          "Animal",
		SimpleName:    "Animal",
		QualifiedName: "zoo.Animal",
		ShapeID:       ShapeID([]string{"__name__"}),
		Attrs:         []AttrView{{Name: "__name__", Kind: "str", Value: `"Animal"`}},
	}}

	id1, err := SnapshotID(classes)
	require.NoError(t, err)
	id2, err := SnapshotID(classes)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	classes[0].SimpleName = "Beast"
	id3, err := SnapshotID(classes)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id3)
}

func TestSnapshotID_LocationContributes(t *testing.T) {
	base := ClassView{ID: "c1", Name: "A"}
	withLoc := base
	withLoc.Location = &Location{Source: "a.cue", StartLine: 1}

	id1, err := SnapshotID([]ClassView{base})
	require.NoError(t, err)
	id2, err := SnapshotID([]ClassView{withLoc})
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)
}
