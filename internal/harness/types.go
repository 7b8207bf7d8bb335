package harness

import "github.com/roach88/metaclass/internal/ir"

// FinalStep marks checks that come from the scenario's assertions list.
const FinalStep = -1

// Check is the outcome of one assertion.
type Check struct {
	Step   int    `json:"step"` // index into Scenario.Steps, or FinalStep
	Type   string `json:"type"`
	Class  string `json:"class"`
	Target string `json:"target,omitempty"`
	Got    any    `json:"got"`
	Want   any    `json:"want"`
	Pass   bool   `json:"pass"`
}

// ClassReport is the rendered state of one declared class.
type ClassReport struct {
	Name          string       `json:"name"`
	SimpleName    string       `json:"simple_name"`
	QualifiedName string       `json:"qualified_name"`
	Bases         []string     `json:"bases"`     // class names
	Ancestors     []string     `json:"ancestors"` // class names, linearized
	Location      string       `json:"location,omitempty"`
	Attrs         []AttrReport `json:"attrs"`
}

// AttrReport is one attribute in insertion order.
type AttrReport struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Value any    `json:"value"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every check passed.
	Pass bool `json:"pass"`

	// Checks lists expect steps and final assertions in evaluation order.
	Checks []Check `json:"checks"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Classes is the final state of every declared class in definition
	// order.
	Classes []ClassReport `json:"classes"`

	// Snapshot is the final engine snapshot as read back from the store.
	Snapshot ir.Snapshot `json:"snapshot"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Checks:  []Check{},
		Errors:  []string{},
		Classes: []ClassReport{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddCheck records a check; a failed check also records its error.
func (r *Result) AddCheck(c Check, failure error) {
	r.Checks = append(r.Checks, c)
	if failure != nil {
		r.AddError(failure.Error())
	}
}
