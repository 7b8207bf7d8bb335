package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/metaclass/internal/ir"
)

// GoldenDir holds golden files, relative to the test's package.
const GoldenDir = "testdata/golden"

// Golden renders a result as canonical JSON for golden comparison.
//
// Engine-generated IDs and hashes are left out: the document names
// classes, so it stays readable and stable under ID scheme changes.
func Golden(scenarioName string, result *Result) ([]byte, error) {
	checks := make([]any, len(result.Checks))
	for i, c := range result.Checks {
		m := map[string]any{
			"step":  c.Step,
			"type":  c.Type,
			"class": c.Class,
			"got":   c.Got,
			"pass":  c.Pass,
		}
		if c.Target != "" {
			m["target"] = c.Target
		}
		checks[i] = m
	}

	classes := make([]any, len(result.Classes))
	for i, c := range result.Classes {
		attrs := make([]any, len(c.Attrs))
		for j, a := range c.Attrs {
			attrs[j] = map[string]any{"name": a.Name, "kind": a.Kind, "value": a.Value}
		}
		m := map[string]any{
			"name":           c.Name,
			"simple_name":    c.SimpleName,
			"qualified_name": c.QualifiedName,
			"bases":          c.Bases,
			"ancestors":      c.Ancestors,
			"attrs":          attrs,
		}
		if c.Location != "" {
			m["location"] = c.Location
		}
		classes[i] = m
	}

	return ir.MarshalCanonical(map[string]any{
		"scenario": scenarioName,
		"pass":     result.Pass,
		"checks":   checks,
		"classes":  classes,
	})
}

// RunWithGolden executes a scenario and compares its rendering against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result, opts ...goldie.Option) error {
	t.Helper()

	data, err := Golden(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t, append([]goldie.Option{
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(".golden"),
	}, opts...)...)
	g.Assert(t, scenarioName, data)
	return nil
}
