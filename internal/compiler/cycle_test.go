package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/metaclass/internal/ir"
)

func decl(name string, bases ...string) ir.ClassDecl {
	return ir.ClassDecl{Name: name, Bases: bases}
}

func builtins(name string) bool {
	return name == "object" || name == "type"
}

func names(decls []ir.ClassDecl) []string {
	out := make([]string, len(decls))
	for i, d := range decls {
		out[i] = d.Name
	}
	return out
}

func TestCheckHierarchy_Empty(t *testing.T) {
	assert.Empty(t, CheckHierarchy(nil, nil))
}

func TestCheckHierarchy_DAG(t *testing.T) {
	decls := []ir.ClassDecl{
		decl("Root", "object"),
		decl("A", "Root"),
		decl("B", "Root"),
		decl("X", "A", "B"),
	}
	assert.Empty(t, CheckHierarchy(decls, builtins))
}

func TestCheckHierarchy_UnknownBase(t *testing.T) {
	issues := CheckHierarchy([]ir.ClassDecl{decl("A", "Missing")}, builtins)
	require.Len(t, issues, 1)
	assert.Equal(t, IssueUnknownBase, issues[0].Code)
	assert.Equal(t, "A", issues[0].Class)
	assert.Equal(t, `UNKNOWN_BASE: class "A" has unknown base "Missing"`, issues[0].Error())

	// Without a known func, builtins are unknown too.
	issues = CheckHierarchy([]ir.ClassDecl{decl("A", "object")}, nil)
	require.Len(t, issues, 1)
}

func TestCheckHierarchy_DuplicateClass(t *testing.T) {
	issues := CheckHierarchy([]ir.ClassDecl{decl("A"), decl("A")}, nil)
	require.Len(t, issues, 1)
	assert.Equal(t, IssueDuplicateClass, issues[0].Code)
}

func TestCheckHierarchy_SelfLoop(t *testing.T) {
	issues := CheckHierarchy([]ir.ClassDecl{decl("A", "A")}, nil)
	require.Len(t, issues, 1)
	assert.Equal(t, IssueCyclicHierarchy, issues[0].Code)
	assert.Equal(t, []string{"A", "A"}, issues[0].Path)
	assert.Equal(t, "class A derives from itself", issues[0].Message)
}

func TestCheckHierarchy_ThreeNodeCycle(t *testing.T) {
	decls := []ir.ClassDecl{
		decl("A", "C"),
		decl("B", "A"),
		decl("C", "B"),
		decl("D", "A"),
	}
	issues := CheckHierarchy(decls, nil)
	require.Len(t, issues, 1)
	assert.Equal(t, IssueCyclicHierarchy, issues[0].Code)
	assert.Equal(t, "A", issues[0].Class)
	assert.Equal(t, []string{"A", "C", "B", "A"}, issues[0].Path)
	assert.Equal(t, "inheritance cycle: A -> C -> B -> A", issues[0].Message)
}

func TestCheckHierarchy_MultipleIssuesSorted(t *testing.T) {
	decls := []ir.ClassDecl{
		decl("Z", "Y"),
		decl("Y", "Z"),
		decl("M", "Nope"),
		decl("B", "B"),
	}
	issues := CheckHierarchy(decls, nil)
	require.Len(t, issues, 3)
	assert.Equal(t, "B", issues[0].Class)
	assert.Equal(t, "M", issues[1].Class)
	assert.Equal(t, IssueUnknownBase, issues[1].Code)
	assert.Equal(t, "Y", issues[2].Class)
}

func TestOrder_BasesFirst(t *testing.T) {
	decls := []ir.ClassDecl{
		decl("X", "A", "B"),
		decl("B", "Root"),
		decl("A", "Root"),
		decl("Root", "object"),
		decl("Lonely"),
	}
	ordered, err := Order(decls)
	require.NoError(t, err)
	assert.Equal(t, []string{"Root", "A", "B", "X", "Lonely"}, names(ordered))
}

func TestOrder_PreservesIndependentOrder(t *testing.T) {
	ordered, err := Order([]ir.ClassDecl{decl("C"), decl("A"), decl("B")})
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, names(ordered))
}

func TestOrder_Cycle(t *testing.T) {
	_, err := Order([]ir.ClassDecl{decl("A", "B"), decl("B", "A")})
	require.Error(t, err)

	var issue HierarchyIssue
	require.ErrorAs(t, err, &issue)
	assert.Equal(t, IssueCyclicHierarchy, issue.Code)
	assert.Equal(t, []string{"A", "B", "A"}, issue.Path)
}
