package ir

// ClassDecl is a compiled class declaration, ready for materialization.
type ClassDecl struct {
	Name     string     `json:"name"`
	QualName string     `json:"qualname,omitempty"` // defaults to Name when empty
	Bases    []string   `json:"bases"`              // base class names, in order
	Internal bool       `json:"internal,omitempty"` // declared by runtime-internal sources
	Attrs    []AttrDecl `json:"attrs"`              // declaration order = insertion order
	Loc      *Location  `json:"location,omitempty"` // where the declaration starts
}

// AttrDecl is one attribute assignment inside a class body.
type AttrDecl struct {
	Name  string `json:"name"`
	Value Value  `json:"-"`
}

// ClassView is the side-effect-free tooling view of one live class.
// Every field is produced through the meta-object protocol.
type ClassView struct {
	ID            string     `json:"id"`
	Seq           int64      `json:"seq"` // definition order
	Name          string     `json:"name"`
	SimpleName    string     `json:"simple_name"`
	QualifiedName string     `json:"qualified_name"`
	MetaID        string     `json:"meta_id,omitempty"`
	Bases         []string   `json:"bases"`     // class IDs
	Ancestors     []string   `json:"ancestors"` // class IDs, linearized
	ShapeID       string     `json:"shape_id"`
	Location      *Location  `json:"location,omitempty"`
	Attrs         []AttrView `json:"attrs"`
}

// AttrView is one attribute in insertion order. Value is canonical JSON;
// class and instance values are rendered as {"kind":...,"ref":id}.
type AttrView struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// Snapshot is a content-addressed set of class views.
type Snapshot struct {
	ID            string      `json:"id"`
	EngineVersion string      `json:"engine_version"`
	Classes       []ClassView `json:"classes"`
}

// toCanonicalMap converts a view for snapshot hashing.
func (c ClassView) toCanonicalMap() map[string]any {
	attrs := make([]any, len(c.Attrs))
	for i, a := range c.Attrs {
		attrs[i] = map[string]any{"name": a.Name, "kind": a.Kind, "value": a.Value}
	}
	m := map[string]any{
		"id":             c.ID,
		"seq":            c.Seq,
		"name":           c.Name,
		"simple_name":    c.SimpleName,
		"qualified_name": c.QualifiedName,
		"meta_id":        c.MetaID,
		"bases":          append([]string{}, c.Bases...),
		"ancestors":      append([]string{}, c.Ancestors...),
		"shape_id":       c.ShapeID,
		"attrs":          attrs,
	}
	if c.Location != nil {
		m["location"] = *c.Location
	}
	return m
}
