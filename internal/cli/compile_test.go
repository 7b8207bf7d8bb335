package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compiledByName(classes []CompiledClass, name string) *CompiledClass {
	for i := range classes {
		if classes[i].Name == name {
			return &classes[i]
		}
	}
	return nil
}

func TestCompileValidSpecs(t *testing.T) {
	stdout, _, err := runCommand(t, "compile", specsDir)
	require.NoError(t, err)

	assert.Contains(t, stdout, "\u2713 Compiled 4 class(es)")
	assert.Contains(t, stdout, "zoo.Dog(Animal): 1 attribute(s)")
	assert.Contains(t, stdout, "Plain(object): 1 attribute(s)")
	assert.Contains(t, stdout, "Counter(int): 1 attribute(s)")
}

func TestCompileValidSpecsJSON(t *testing.T) {
	stdout, _, err := runCommand(t, "--format", "json", "compile", specsDir)
	require.NoError(t, err)

	var result CompilationResult
	resp := decodeResponse(t, stdout, &result)
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, result.Classes, 4)

	animal := compiledByName(result.Classes, "Animal")
	require.NotNil(t, animal)
	assert.Equal(t, "zoo.Animal", animal.QualName)
	assert.Empty(t, animal.Bases)
	assert.Equal(t, []CompiledAttr{
		{Name: "legs", Kind: "int", Value: "4"},
		{Name: "speak", Kind: "func", Value: "<function zoo.Animal.speak>"},
	}, animal.Attrs)

	plain := compiledByName(result.Classes, "Plain")
	require.NotNil(t, plain)
	assert.Equal(t, "Plain", plain.QualName, "qualname defaults to the class name")
}

func TestCompileOutputToFile(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "compiled.json")

	stdout, _, err := runCommand(t, "compile", specsDir, "--output", outputFile)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote compiled classes to "+outputFile)

	data, err := os.ReadFile(outputFile)
	require.NoError(t, err)

	var result CompilationResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Len(t, result.Classes, 4)
}

func TestCompileOutputToUnwritablePath(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "missing", "compiled.json")

	stdout, _, err := runCommand(t, "--format", "json", "compile", specsDir, "-o", outputFile)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp := decodeResponse(t, stdout, nil)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeWriteFailed, resp.Error.Code)
}

func TestCompileInvalidSpecs(t *testing.T) {
	stdout, _, err := runCommand(t, "--format", "json", "compile", "testdata/float")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var all []CLIError
	resp := decodeResponse(t, stdout, &all)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeInvalidAttr, resp.Error.Code)
	require.Len(t, all, 1)
	assert.NotNil(t, all[0].Details, "position details")
}

func TestCompileMissingDirectory(t *testing.T) {
	stdout, _, err := runCommand(t, "compile", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "E005")
	assert.Contains(t, stdout, "specs directory not found")
}

func TestCompileRequiresArgument(t *testing.T) {
	_, _, err := runCommand(t, "compile")
	require.Error(t, err)
}
