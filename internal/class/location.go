package class

import (
	"github.com/roach88/metaclass/internal/interop"
	"github.com/roach88/metaclass/internal/ir"
)

// locationResult is the memoized outcome of a location scan. A result with
// found=false records "unknown".
type locationResult struct {
	loc   ir.Location
	found bool
}

// HasSourceLocation reports whether a definition site was found.
//
// The first call scans the attribute store; the answer is then fixed for
// the life of the class, including a negative one.
func (c *Class) HasSourceLocation() bool {
	return c.location().found
}

// SourceLocation returns the memoized definition site, or an
// *interop.UnsupportedMessageError when there is none.
func (c *Class) SourceLocation() (ir.Location, error) {
	r := c.location()
	if !r.found {
		return ir.Location{}, interop.Unsupported("SourceLocation", c.String())
	}
	return r.loc, nil
}

// location returns the published result, computing it if needed. Racing
// first callers may all scan; the first to publish wins and the rest adopt
// its answer.
func (c *Class) location() *locationResult {
	return c.locate(nil)
}

// locate is location with the set of classes whose scans are running on
// this call chain. A class reached again through its own nested classes
// returns nil: it has no location to offer from inside its own scan.
func (c *Class) locate(active map[*Class]bool) *locationResult {
	if r := c.loc.Load(); r != nil {
		return r
	}
	if active[c] {
		return nil
	}
	if active == nil {
		active = make(map[*Class]bool)
	}
	active[c] = true
	r := c.scanLocation(active)
	delete(active, c)

	if c.loc.CompareAndSwap(nil, r) {
		return r
	}
	return c.loc.Load()
}

// scanLocation returns the location of the first attribute value, in
// insertion order, that carries one.
//
// Nested classes are resolved on the same call chain first, so the probe
// below finds their answer memoized. A nested class still being scanned
// further up the chain is skipped.
func (c *Class) scanLocation(active map[*Class]bool) *locationResult {
	for _, v := range c.attrs.All() {
		if nested, ok := v.(*Class); ok && nested.locate(active) == nil {
			continue
		}
		if loc, ok := probe(c.host, v); ok {
			return &locationResult{loc: loc, found: true}
		}
	}
	return &locationResult{}
}

// probe asks p about v. A failing or panicking probe means "no location".
func probe(p interop.Probe, v ir.Value) (loc ir.Location, ok bool) {
	defer func() {
		if recover() != nil {
			loc, ok = ir.Location{}, false
		}
	}()
	if !p.HasLocation(v) {
		return ir.Location{}, false
	}
	loc, err := p.LocationOf(v)
	if err != nil {
		return ir.Location{}, false
	}
	return loc, true
}
