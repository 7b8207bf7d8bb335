package class

import (
	"runtime"
	"sync"
	"sync/atomic"
	"weak"
)

// IsSubtype reports whether candidate is target or has target in its
// transitive base closure. Nil operands are never subtypes.
//
// Each ancestor is visited once, however many paths lead to it, so diamond
// hierarchies cost linear time in the number of distinct ancestors.
func IsSubtype(candidate, target *Class) bool {
	if candidate == nil || target == nil {
		return false
	}
	if candidate == target {
		return true
	}
	found := false
	walkAncestors(candidate, func(a *Class) bool {
		found = a == target
		return !found
	})
	return found
}

// Ancestors returns the distinct transitive bases of c, excluding c itself,
// depth-first and left to right. Attribute lookup uses c followed by this
// list as its linearization.
func Ancestors(c *Class) []*Class {
	var out []*Class
	walkAncestors(c, func(a *Class) bool {
		out = append(out, a)
		return true
	})
	return out
}

// walkAncestors calls visit once per distinct ancestor of c in depth-first,
// left-to-right preorder until visit returns false.
func walkAncestors(c *Class, visit func(*Class) bool) {
	if c == nil {
		return
	}
	visited := map[*Class]struct{}{c: {}}
	stack := reversed(c.bases)
	for len(stack) > 0 {
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if next == nil {
			continue
		}
		if _, seen := visited[next]; seen {
			continue
		}
		visited[next] = struct{}{}
		if !visit(next) {
			return
		}
		stack = append(stack, reversed(next.bases)...)
	}
}

func reversed(bases []*Class) []*Class {
	out := make([]*Class, len(bases))
	for i, b := range bases {
		out[len(bases)-1-i] = b
	}
	return out
}

// pairKey identifies a (candidate, target) question without keeping either
// class reachable.
type pairKey struct {
	candidate weak.Pointer[Class]
	target    weak.Pointer[Class]
}

// Oracle is a cached subtype predicate.
//
// Results are pure as long as base lists are immutable, so each pair is
// computed once and kept until either class is garbage collected. The zero
// value is not usable; create oracles with NewOracle.
type Oracle struct {
	enabled bool

	cache   sync.Map // pairKey -> bool
	tracked sync.Map // weak.Pointer[Class] -> struct{}, classes with a cleanup registered

	hits   atomic.Int64
	misses atomic.Int64
}

// OracleStats reports cache effectiveness.
type OracleStats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int   `json:"entries"`
}

// NewOracle creates an oracle. With enabled=false every query is recomputed
// (and counted as a miss).
func NewOracle(enabled bool) *Oracle {
	return &Oracle{enabled: enabled}
}

// IsSubtype answers like the package-level IsSubtype, consulting the cache
// first. The identity fast path bypasses the cache entirely.
func (o *Oracle) IsSubtype(candidate, target *Class) bool {
	if candidate == nil || target == nil {
		return false
	}
	if candidate == target {
		return true
	}
	if !o.enabled {
		o.misses.Add(1)
		return IsSubtype(candidate, target)
	}

	key := pairKey{candidate: weak.Make(candidate), target: weak.Make(target)}
	if v, ok := o.cache.Load(key); ok {
		o.hits.Add(1)
		return v.(bool)
	}

	o.misses.Add(1)
	result := IsSubtype(candidate, target)
	if _, loaded := o.cache.LoadOrStore(key, result); !loaded {
		o.track(candidate)
		o.track(target)
	}
	return result
}

// Stats returns a snapshot of the counters and the current entry count.
func (o *Oracle) Stats() OracleStats {
	entries := 0
	o.cache.Range(func(_, _ any) bool {
		entries++
		return true
	})
	return OracleStats{
		Hits:    o.hits.Load(),
		Misses:  o.misses.Load(),
		Entries: entries,
	}
}

// track registers a cleanup dropping c's entries once c is collected.
func (o *Oracle) track(c *Class) {
	wp := weak.Make(c)
	if _, loaded := o.tracked.LoadOrStore(wp, struct{}{}); loaded {
		return
	}
	runtime.AddCleanup(c, o.forget, wp)
}

func (o *Oracle) forget(wp weak.Pointer[Class]) {
	o.tracked.Delete(wp)
	o.cache.Range(func(k, _ any) bool {
		if key := k.(pairKey); key.candidate == wp || key.target == wp {
			o.cache.Delete(k)
		}
		return true
	})
}
