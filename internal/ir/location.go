package ir

import "fmt"

// Location is a source section: where a value was defined.
//
// Line and column numbers are 1-based. End positions are optional (zero
// when unknown).
type Location struct {
	Source      string `json:"source"`
	StartLine   int    `json:"start_line"`
	StartColumn int    `json:"start_column"`
	EndLine     int    `json:"end_line,omitempty"`
	EndColumn   int    `json:"end_column,omitempty"`
	Internal    bool   `json:"internal,omitempty"` // defined by runtime-internal sources
}

// IsValid reports whether the location names a source and a line.
func (l Location) IsValid() bool {
	return l.Source != "" && l.StartLine > 0
}

// String renders "source:line:column".
func (l Location) String() string {
	if !l.IsValid() {
		return "<unknown>"
	}
	if l.StartColumn > 0 {
		return fmt.Sprintf("%s:%d:%d", l.Source, l.StartLine, l.StartColumn)
	}
	return fmt.Sprintf("%s:%d", l.Source, l.StartLine)
}

// toCanonicalMap converts the location for canonical serialization.
func (l Location) toCanonicalMap() map[string]any {
	m := map[string]any{
		"source":       l.Source,
		"start_line":   l.StartLine,
		"start_column": l.StartColumn,
	}
	if l.EndLine > 0 {
		m["end_line"] = l.EndLine
		m["end_column"] = l.EndColumn
	}
	if l.Internal {
		m["internal"] = true
	}
	return m
}
