package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_Valid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "zoo.cue", `class: Animal: {}`)
	path := writeFile(t, dir, "s.yaml", `
name: valid
description: "A valid scenario"
specs: [zoo.cue]
options:
  subtype_cache: false
  expose_internal_sources: true
steps:
  - define: {name: Dog, bases: [Animal], attrs: [{name: legs, value: 4}]}
  - set: {class: Dog, attr: sound, value: woof}
  - delete: {class: Dog, attr: sound}
  - expect: {type: is_subtype, class: Dog, target: Animal, want: true}
assertions:
  - {type: simple_name, class: Dog, want: Dog}
`)

	s, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "valid", s.Name)
	assert.Equal(t, []string{filepath.Join(dir, "zoo.cue")}, s.SpecPaths())
	require.NotNil(t, s.Options.SubtypeCache)
	assert.False(t, *s.Options.SubtypeCache)
	assert.True(t, s.Options.ExposeInternalSources)

	require.Len(t, s.Steps, 4)
	require.NotNil(t, s.Steps[0].Define)
	assert.Equal(t, []string{"Animal"}, s.Steps[0].Define.Bases)
	assert.Equal(t, 4, s.Steps[0].Define.Attrs[0].Value)
	require.NotNil(t, s.Steps[1].Set)
	assert.Equal(t, "woof", s.Steps[1].Set.Value)
	require.NotNil(t, s.Steps[2].Delete)
	require.NotNil(t, s.Steps[3].Expect)
	assert.Equal(t, true, s.Steps[3].Expect.Want)
}

func TestLoadScenario_Errors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "zoo.cue", `class: Animal: {}`)

	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "unknown field",
			yaml:    "name: x\ndescription: d\nassertion: []\n",
			wantErr: "failed to parse YAML",
		},
		{
			name:    "missing name",
			yaml:    "description: d\nassertions: [{type: simple_name, class: A, want: A}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: x\nassertions: [{type: simple_name, class: A, want: A}]\n",
			wantErr: "description is required",
		},
		{
			name:    "no assertions",
			yaml:    "name: x\ndescription: d\n",
			wantErr: "assertions list is required",
		},
		{
			name:    "missing spec",
			yaml:    "name: x\ndescription: d\nspecs: [nope.cue]\nassertions: [{type: simple_name, class: A, want: A}]\n",
			wantErr: "spec file not found",
		},
		{
			name:    "unknown assertion type",
			yaml:    "name: x\ndescription: d\nassertions: [{type: colour, class: A, want: red}]\n",
			wantErr: `unknown assertion type "colour"`,
		},
		{
			name:    "missing class",
			yaml:    "name: x\ndescription: d\nassertions: [{type: simple_name, want: A}]\n",
			wantErr: "class is required",
		},
		{
			name:    "subtype without target",
			yaml:    "name: x\ndescription: d\nassertions: [{type: is_subtype, class: A, want: true}]\n",
			wantErr: "target is required",
		},
		{
			name:    "bool assertion with string want",
			yaml:    "name: x\ndescription: d\nassertions: [{type: has_source_location, class: A, want: \"yes\"}]\n",
			wantErr: "want must be a bool",
		},
		{
			name:    "name assertion with bool want",
			yaml:    "name: x\ndescription: d\nassertions: [{type: simple_name, class: A, want: true}]\n",
			wantErr: "want must be a string",
		},
		{
			name:    "empty step",
			yaml:    "name: x\ndescription: d\nsteps: [{}]\nassertions: [{type: simple_name, class: A, want: A}]\n",
			wantErr: "exactly one of define, set, delete, expect",
		},
		{
			name:    "two actions in one step",
			yaml:    "name: x\ndescription: d\nsteps: [{set: {class: A, attr: x, value: 1}, delete: {class: A, attr: x}}]\nassertions: [{type: simple_name, class: A, want: A}]\n",
			wantErr: "exactly one of define, set, delete, expect",
		},
		{
			name:    "define without name",
			yaml:    "name: x\ndescription: d\nsteps: [{define: {bases: [A]}}]\nassertions: [{type: simple_name, class: A, want: A}]\n",
			wantErr: "steps[0].define: name is required",
		},
		{
			name:    "set without attr",
			yaml:    "name: x\ndescription: d\nsteps: [{set: {class: A, value: 1}}]\nassertions: [{type: simple_name, class: A, want: A}]\n",
			wantErr: "class and attr are required",
		},
		{
			name:    "invalid expect step",
			yaml:    "name: x\ndescription: d\nsteps: [{expect: {type: is_instance, class: A, want: true}}]\nassertions: [{type: simple_name, class: A, want: A}]\n",
			wantErr: "steps[0].expect: target is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml), dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_FileNotFound(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_Testdata(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			_, err := LoadScenario(path)
			require.NoError(t, err)
		})
	}
}
