package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario is one class scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Specs lists CUE files to compile and load, relative to the scenario
	// file. Locations report the path as written here.
	Specs []string `yaml:"specs"`

	// Options configures the engine.
	Options Options `yaml:"options,omitempty"`

	// Steps run in order after the specs are loaded.
	Steps []Step `yaml:"steps,omitempty"`

	// Assertions are checked after the last step.
	Assertions []Assertion `yaml:"assertions"`

	// dir is the directory spec paths are resolved against.
	dir string
}

// Options mirrors the engine options a scenario may set.
type Options struct {
	// SubtypeCache enables the subtype oracle's cache. Default: true.
	SubtypeCache *bool `yaml:"subtype_cache,omitempty"`

	// ExposeInternalSources makes internal locations visible.
	ExposeInternalSources bool `yaml:"expose_internal_sources,omitempty"`
}

// Step is exactly one of Define, Set, Delete or Expect.
type Step struct {
	Define *DefineStep `yaml:"define,omitempty"`
	Set    *SetStep    `yaml:"set,omitempty"`
	Delete *DeleteStep `yaml:"delete,omitempty"`
	Expect *Assertion  `yaml:"expect,omitempty"`
}

// DefineStep declares a new class at run time.
type DefineStep struct {
	Name     string     `yaml:"name"`
	QualName string     `yaml:"qualname,omitempty"`
	Bases    []string   `yaml:"bases,omitempty"`
	Attrs    []AttrSpec `yaml:"attrs,omitempty"`
}

// AttrSpec is one ordered attribute of a DefineStep.
type AttrSpec struct {
	Name  string `yaml:"name"`
	Value any    `yaml:"value"`
}

// SetStep writes a class attribute through the raw store.
type SetStep struct {
	Class string `yaml:"class"`
	Attr  string `yaml:"attr"`
	Value any    `yaml:"value"`
}

// DeleteStep removes a class attribute.
type DeleteStep struct {
	Class string `yaml:"class"`
	Attr  string `yaml:"attr"`
}

// Assertion checks one meta-object answer.
type Assertion struct {
	Type   string `yaml:"type"`
	Class  string `yaml:"class"`
	Target string `yaml:"target,omitempty"`
	Want   any    `yaml:"want"`
}

// Assertion type constants.
const (
	AssertSimpleName        = "simple_name"
	AssertQualifiedName     = "qualified_name"
	AssertIsSubtype         = "is_subtype"
	AssertIsInstance        = "is_instance"
	AssertHasSourceLocation = "has_source_location"
	AssertSourceLocation    = "source_location"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data, filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	return scenario, nil
}

// ParseScenario parses scenario YAML. Spec paths resolve against dir.
func ParseScenario(data []byte, dir string) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	scenario.dir = dir

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// SpecPaths returns the spec files resolved against the scenario directory.
func (s *Scenario) SpecPaths() []string {
	paths := make([]string, len(s.Specs))
	for i, p := range s.Specs {
		if filepath.IsAbs(p) || s.dir == "" {
			paths[i] = p
			continue
		}
		paths[i] = filepath.Join(s.dir, p)
	}
	return paths
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for _, p := range s.SpecPaths() {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return fmt.Errorf("spec file not found: %s", p)
		}
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(fmt.Sprintf("assertions[%d]", i), &a); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, step *Step) error {
	set := 0
	for _, present := range []bool{step.Define != nil, step.Set != nil, step.Delete != nil, step.Expect != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("steps[%d]: exactly one of define, set, delete, expect is required", index)
	}

	switch {
	case step.Define != nil:
		if step.Define.Name == "" {
			return fmt.Errorf("steps[%d].define: name is required", index)
		}
		for j, a := range step.Define.Attrs {
			if a.Name == "" {
				return fmt.Errorf("steps[%d].define.attrs[%d]: name is required", index, j)
			}
		}
	case step.Set != nil:
		if step.Set.Class == "" || step.Set.Attr == "" {
			return fmt.Errorf("steps[%d].set: class and attr are required", index)
		}
	case step.Delete != nil:
		if step.Delete.Class == "" || step.Delete.Attr == "" {
			return fmt.Errorf("steps[%d].delete: class and attr are required", index)
		}
	case step.Expect != nil:
		return validateAssertion(fmt.Sprintf("steps[%d].expect", index), step.Expect)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(where string, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("%s: type is required", where)
	}
	if a.Class == "" {
		return fmt.Errorf("%s: class is required", where)
	}

	switch a.Type {
	case AssertSimpleName, AssertQualifiedName, AssertSourceLocation:
		if _, ok := a.Want.(string); !ok {
			return fmt.Errorf("%s: want must be a string for %s", where, a.Type)
		}
	case AssertIsSubtype, AssertIsInstance:
		if a.Target == "" {
			return fmt.Errorf("%s: target is required for %s", where, a.Type)
		}
		if _, ok := a.Want.(bool); !ok {
			return fmt.Errorf("%s: want must be a bool for %s", where, a.Type)
		}
	case AssertHasSourceLocation:
		if _, ok := a.Want.(bool); !ok {
			return fmt.Errorf("%s: want must be a bool for %s", where, a.Type)
		}
	default:
		return fmt.Errorf("%s: unknown assertion type %q", where, a.Type)
	}
	return nil
}
