package compiler

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/metaclass/internal/ir"
)

// Hierarchy issue codes.
const (
	IssueUnknownBase     = "UNKNOWN_BASE"
	IssueDuplicateClass  = "DUPLICATE_CLASS"
	IssueCyclicHierarchy = "CYCLIC_HIERARCHY"
)

// HierarchyIssue is a problem in the class graph formed by a set of
// declarations. Unlike cycles between sync-like rules, an inheritance cycle
// is always an error: no class in it could ever be constructed.
type HierarchyIssue struct {
	Code    string   `json:"code"`
	Class   string   `json:"class"`
	Path    []string `json:"path,omitempty"` // cycle path: ["A", "B", "A"]
	Message string   `json:"message"`
}

func (i HierarchyIssue) Error() string {
	return fmt.Sprintf("%s: %s", i.Code, i.Message)
}

// CheckHierarchy reports unknown bases, duplicate class names and
// inheritance cycles among decls.
//
// known reports whether a name refers to a class that already exists
// outside decls (builtins such as "object"); it may be nil.
//
// The algorithm:
//  1. Index declarations by name, flagging duplicates
//  2. Resolve every base against the index, then against known
//  3. Run Tarjan's algorithm over the class -> base graph
//  4. Report each SCC with size > 1, or with a self-loop, as a cycle
//
// Issues are sorted by class name, then code, for deterministic output.
func CheckHierarchy(decls []ir.ClassDecl, known func(name string) bool) []HierarchyIssue {
	var issues []HierarchyIssue

	declared := make(map[string]bool, len(decls))
	for _, d := range decls {
		if declared[d.Name] {
			issues = append(issues, HierarchyIssue{
				Code:    IssueDuplicateClass,
				Class:   d.Name,
				Message: fmt.Sprintf("class %q declared more than once", d.Name),
			})
		}
		declared[d.Name] = true
	}

	graph := make(inheritanceGraph, len(decls))
	for _, d := range decls {
		graph[d.Name] = nil
	}
	for _, d := range decls {
		for _, base := range d.Bases {
			switch {
			case declared[base]:
				graph[d.Name] = append(graph[d.Name], base)
			case known != nil && known(base):
				// External class; cannot take part in a cycle.
			default:
				issues = append(issues, HierarchyIssue{
					Code:    IssueUnknownBase,
					Class:   d.Name,
					Message: fmt.Sprintf("class %q has unknown base %q", d.Name, base),
				})
			}
		}
	}

	for _, scc := range tarjanSCC(graph) {
		if len(scc) > 1 || hasSelfLoop(scc[0], graph) {
			issues = append(issues, cycleIssue(scc, graph))
		}
	}

	slices.SortStableFunc(issues, func(a, b HierarchyIssue) int {
		if c := strings.Compare(a.Class, b.Class); c != 0 {
			return c
		}
		return strings.Compare(a.Code, b.Code)
	})
	return issues
}

// Order returns decls sorted so that every declaration comes after all of
// its declared bases. Relative declaration order is otherwise preserved.
// Bases not declared in decls are ignored; call CheckHierarchy first.
func Order(decls []ir.ClassDecl) ([]ir.ClassDecl, error) {
	index := make(map[string]int, len(decls))
	for i, d := range decls {
		index[d.Name] = i
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(decls))
	ordered := make([]ir.ClassDecl, 0, len(decls))

	var visit func(i int, path []string) error
	visit = func(i int, path []string) error {
		switch state[i] {
		case done:
			return nil
		case visiting:
			cycle := append(slices.Clone(path), decls[i].Name)
			return HierarchyIssue{
				Code:    IssueCyclicHierarchy,
				Class:   decls[i].Name,
				Path:    cycle,
				Message: "inheritance cycle: " + strings.Join(cycle, " -> "),
			}
		}
		state[i] = visiting
		path = append(path, decls[i].Name)
		for _, base := range decls[i].Bases {
			if j, ok := index[base]; ok {
				if err := visit(j, path); err != nil {
					return err
				}
			}
		}
		state[i] = done
		ordered = append(ordered, decls[i])
		return nil
	}

	for i := range decls {
		if err := visit(i, nil); err != nil {
			return nil, err
		}
	}
	return ordered, nil
}

// inheritanceGraph maps class name -> declared bases that are themselves
// declared.
type inheritanceGraph map[string][]string

// hasSelfLoop checks if a node has an edge to itself.
func hasSelfLoop(node string, graph inheritanceGraph) bool {
	return slices.Contains(graph[node], node)
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
//
// Nodes are visited in sorted order so results are deterministic.
// Single-node SCCs without self-loops are NOT cycles.
func tarjanSCC(graph inheritanceGraph) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	nodes := make([]string, 0, len(graph))
	for node := range graph {
		nodes = append(nodes, node)
	}
	slices.Sort(nodes)
	for _, node := range nodes {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	return sccs
}

// cycleIssue converts an SCC to a HierarchyIssue anchored at its smallest
// class name.
func cycleIssue(scc []string, graph inheritanceGraph) HierarchyIssue {
	scc = slices.Clone(scc)
	slices.Sort(scc)

	if len(scc) == 1 {
		name := scc[0]
		return HierarchyIssue{
			Code:    IssueCyclicHierarchy,
			Class:   name,
			Path:    []string{name, name},
			Message: fmt.Sprintf("class %s derives from itself", name),
		}
	}

	path := reconstructCyclePath(scc, graph)
	return HierarchyIssue{
		Code:    IssueCyclicHierarchy,
		Class:   scc[0],
		Path:    path,
		Message: "inheritance cycle: " + strings.Join(path, " -> "),
	}
}

// reconstructCyclePath builds a cycle path from an SCC.
//
// Strategy: start at the first node in the SCC, follow edges to other SCC
// members, continue until we return to the start node.
func reconstructCyclePath(scc []string, graph inheritanceGraph) []string {
	if len(scc) == 0 {
		return []string{}
	}

	sccSet := make(map[string]bool)
	for _, node := range scc {
		sccSet[node] = true
	}

	start := scc[0]
	current := start
	path := []string{current}
	visited := make(map[string]bool)

	for {
		visited[current] = true

		var next string
		for _, neighbor := range graph[current] {
			if sccSet[neighbor] && (!visited[neighbor] || neighbor == start) {
				next = neighbor
				break
			}
		}

		if next == "" {
			break
		}

		path = append(path, next)

		if next == start {
			break
		}

		current = next
	}

	return path
}
