package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/metaclass/internal/ir"
)

const zooCUE = `class: Animal: {
	qualname: "zoo.Animal"
	attrs: {
		"__doc__": "Any animal"
		legs:      4
		tags: ["pet", 1, true, null]
		speak: {def: "speak", params: ["self"]}
	}
}
class: Dog: {
	bases: ["Animal"]
	attrs: {
		bark: {def: "bark", params: ["self", "times"]}
	}
}
`

func compile(t *testing.T, src string) cue.Value {
	t.Helper()
	v := cuecontext.New().CompileString(src, cue.Filename("zoo.cue"))
	require.NoError(t, v.Err())
	return v
}

func TestCompileClasses(t *testing.T) {
	decls, err := CompileClasses(compile(t, zooCUE))
	require.NoError(t, err)
	require.Len(t, decls, 2)

	animal := decls[0]
	assert.Equal(t, "Animal", animal.Name)
	assert.Equal(t, "zoo.Animal", animal.QualName)
	assert.Empty(t, animal.Bases)
	require.NotNil(t, animal.Loc)
	assert.Equal(t, "zoo.cue", animal.Loc.Source)

	names := make([]string, len(animal.Attrs))
	for i, a := range animal.Attrs {
		names[i] = a.Name
	}
	assert.Equal(t, []string{"__doc__", "legs", "tags", "speak"}, names)
	assert.Equal(t, ir.Str("Any animal"), animal.Attrs[0].Value)
	assert.Equal(t, ir.Int(4), animal.Attrs[1].Value)
	assert.Equal(t, ir.Tuple{ir.Str("pet"), ir.Int(1), ir.Bool(true), ir.None{}}, animal.Attrs[2].Value)

	speak, ok := animal.Attrs[3].Value.(*ir.Func)
	require.True(t, ok)
	assert.Equal(t, "speak", speak.Name)
	assert.Equal(t, "zoo.Animal.speak", speak.QualName)
	assert.Equal(t, []string{"self"}, speak.Params)
	loc, ok := speak.Location()
	require.True(t, ok)
	assert.Equal(t, "zoo.cue", loc.Source)
	assert.Equal(t, 7, loc.StartLine)
	assert.False(t, loc.Internal)

	dog := decls[1]
	assert.Equal(t, "Dog", dog.Name)
	assert.Empty(t, dog.QualName)
	assert.Equal(t, []string{"Animal"}, dog.Bases)
	bark := dog.Attrs[0].Value.(*ir.Func)
	assert.Equal(t, "Dog.bark", bark.QualName)
	assert.Equal(t, 13, bark.Loc.StartLine)
}

func TestCompileClasses_NoClassField(t *testing.T) {
	decls, err := CompileClasses(compile(t, `other: 1`))
	require.NoError(t, err)
	assert.Empty(t, decls)
}

func TestCompileClass_InternalMarksLocations(t *testing.T) {
	decls, err := CompileClasses(compile(t, `class: Base: {
	internal: true
	attrs: init: {def: "__init__"}
}
`))
	require.NoError(t, err)
	require.Len(t, decls, 1)
	assert.True(t, decls[0].Internal)
	assert.True(t, decls[0].Loc.Internal)

	fn := decls[0].Attrs[0].Value.(*ir.Func)
	assert.True(t, fn.Loc.Internal)
}

func TestCompileClass_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		message string
	}{
		{"float", `class: A: attrs: ratio: 1.5`, "float values are forbidden"},
		{"plain struct", `class: A: attrs: cfg: {x: 1}`, "function definitions with a def field"},
		{"def not string", `class: A: attrs: f: {def: 3}`, "def must be a string"},
		{"bad param", `class: A: attrs: f: {def: "f", params: [1]}`, "parameter must be a string"},
		{"bad base", `class: A: bases: [1]`, "base must be a class name string"},
		{"bad qualname", `class: A: qualname: 5`, "must be a string"},
		{"bad internal", `class: A: internal: "yes"`, "must be a bool"},
		{"incomplete", `class: A: attrs: x: int`, "must be concrete"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileClasses(compile(t, tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)

			var ce *CompileError
			require.ErrorAs(t, err, &ce)
			assert.True(t, ce.Pos.IsValid(), "error should carry a position")
			assert.Contains(t, err.Error(), "zoo.cue:")
		})
	}
}

func TestCompileClasses_CUEConflict(t *testing.T) {
	v := cuecontext.New().CompileString(`class: A: attrs: x: 1
class: A: attrs: x: 2
`, cue.Filename("zoo.cue"))

	_, err := CompileClasses(v)
	require.Error(t, err)
}

func TestCompileFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "zoo.cue")
	require.NoError(t, os.WriteFile(path, []byte(zooCUE), 0o644))

	decls, err := CompileFile(cuecontext.New(), path)
	require.NoError(t, err)
	require.Len(t, decls, 2)
	assert.Equal(t, path, decls[0].Loc.Source)

	_, err = CompileFile(cuecontext.New(), filepath.Join(dir, "missing.cue"))
	assert.Error(t, err)
}

func TestCompileErrorFormat(t *testing.T) {
	err := &CompileError{Field: "attrs", Message: "boom"}
	assert.Equal(t, "attrs: boom", err.Error())
}

func TestCompileBytes_UsesFilename(t *testing.T) {
	decls, err := CompileBytes(cuecontext.New(), "specs/zoo.cue", []byte(zooCUE))
	require.NoError(t, err)
	require.Len(t, decls, 2)

	speak := decls[0].Attrs[3].Value.(*ir.Func)
	assert.Equal(t, "specs/zoo.cue", speak.Loc.Source)
}
