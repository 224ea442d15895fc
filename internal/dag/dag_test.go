package dag

import (
	"testing"
)

// fanGraph builds load -> {joins, aliases} -> resolve.
func fanGraph(t *testing.T) *Graph[string] {
	t.Helper()
	g := NewGraph[string]()
	g.AddNode("load", "load corpus")
	g.AddNode("joins", "extract joins")
	g.AddNode("aliases", "extract aliases")
	g.AddNode("resolve", "resolve lineage")

	for _, e := range [][2]string{
		{"load", "joins"},
		{"load", "aliases"},
		{"joins", "resolve"},
		{"aliases", "resolve"},
	} {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			t.Fatalf("failed to add edge %v: %v", e, err)
		}
	}
	return g
}

func TestGraph_AddNodeAndEdge(t *testing.T) {
	g := fanGraph(t)

	if g.NodeCount() != 4 {
		t.Errorf("expected 4 nodes, got %d", g.NodeCount())
	}
	if g.EdgeCount() != 4 {
		t.Errorf("expected 4 edges, got %d", g.EdgeCount())
	}
}

func TestGraph_AddNode_ReplacesData(t *testing.T) {
	g := NewGraph[int]()
	g.AddNode("a", 1)
	g.AddNode("a", 2)

	n, ok := g.Node("a")
	if !ok {
		t.Fatal("expected node a")
	}
	if n.Data != 2 {
		t.Errorf("expected data 2, got %d", n.Data)
	}
	if g.NodeCount() != 1 {
		t.Errorf("expected 1 node, got %d", g.NodeCount())
	}
}

func TestGraph_AddEdge_InvalidNodes(t *testing.T) {
	g := NewGraph[string]()
	g.AddNode("a", "")

	if err := g.AddEdge("a", "nonexistent"); err == nil {
		t.Error("expected error for nonexistent child node")
	}
	if err := g.AddEdge("nonexistent", "a"); err == nil {
		t.Error("expected error for nonexistent parent node")
	}
}

func TestGraph_AddEdge_SelfLoop(t *testing.T) {
	g := NewGraph[string]()
	g.AddNode("a", "")

	if err := g.AddEdge("a", "a"); err == nil {
		t.Error("expected error for self-loop")
	}
}

func TestGraph_DuplicateEdges(t *testing.T) {
	g := NewGraph[string]()
	g.AddNode("a", "")
	g.AddNode("b", "")

	_ = g.AddEdge("a", "b")
	_ = g.AddEdge("a", "b")

	if g.EdgeCount() != 1 {
		t.Errorf("expected 1 edge (no duplicates), got %d", g.EdgeCount())
	}
}

func TestGraph_ParentsAndChildren(t *testing.T) {
	g := fanGraph(t)

	if parents := g.Parents("resolve"); len(parents) != 2 {
		t.Errorf("expected resolve to have 2 parents, got %v", parents)
	}
	if children := g.Children("load"); len(children) != 2 {
		t.Errorf("expected load to have 2 children, got %v", children)
	}

	// returned slices are copies
	parents := g.Parents("resolve")
	parents[0] = "mutated"
	if g.Parents("resolve")[0] == "mutated" {
		t.Error("Parents should return a copy")
	}
}

func TestGraph_HasCycle(t *testing.T) {
	g := fanGraph(t)
	if hasCycle, path := g.HasCycle(); hasCycle {
		t.Errorf("expected no cycle, but found: %v", path)
	}

	_ = g.AddEdge("resolve", "load")
	hasCycle, path := g.HasCycle()
	if !hasCycle {
		t.Fatal("expected cycle to be detected")
	}
	if len(path) == 0 {
		t.Error("expected cycle path to be non-empty")
	}
}

func TestGraph_TopologicalSort_Diamond(t *testing.T) {
	g := fanGraph(t)

	sorted, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("failed to sort: %v", err)
	}

	positions := make(map[string]int)
	for i, node := range sorted {
		positions[node.ID] = i
	}

	if positions["load"] != 0 {
		t.Error("load should be first")
	}
	if positions["resolve"] != 3 {
		t.Error("resolve should be last")
	}
}

func TestGraph_TopologicalSort_WithCycle(t *testing.T) {
	g := NewGraph[string]()
	g.AddNode("a", "")
	g.AddNode("b", "")
	_ = g.AddEdge("a", "b")
	_ = g.AddEdge("b", "a")

	if _, err := g.TopologicalSort(); err == nil {
		t.Error("expected error for cyclic graph")
	}
}

func TestGraph_Levels(t *testing.T) {
	g := fanGraph(t)

	levels, err := g.Levels()
	if err != nil {
		t.Fatalf("failed to get levels: %v", err)
	}

	if len(levels) != 3 {
		t.Fatalf("expected 3 levels, got %d", len(levels))
	}
	if len(levels[0]) != 1 || levels[0][0] != "load" {
		t.Errorf("expected [load] at level 0, got %v", levels[0])
	}
	if len(levels[1]) != 2 || levels[1][0] != "aliases" || levels[1][1] != "joins" {
		t.Errorf("expected [aliases joins] at level 1, got %v", levels[1])
	}
	if len(levels[2]) != 1 || levels[2][0] != "resolve" {
		t.Errorf("expected [resolve] at level 2, got %v", levels[2])
	}
}

func TestGraph_Levels_Empty(t *testing.T) {
	levels, err := NewGraph[string]().Levels()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(levels) != 0 {
		t.Errorf("expected no levels, got %v", levels)
	}
}

func TestGraph_Upstream(t *testing.T) {
	g := fanGraph(t)

	upstream := g.Upstream("resolve")
	if len(upstream) != 3 {
		t.Errorf("expected 3 upstream nodes, got %d: %v", len(upstream), upstream)
	}
	if len(g.Upstream("load")) != 0 {
		t.Error("load should have no upstream nodes")
	}
}

func TestGraph_RootsAndLeaves(t *testing.T) {
	g := fanGraph(t)

	if roots := g.Roots(); len(roots) != 1 || roots[0] != "load" {
		t.Errorf("expected [load] roots, got %v", roots)
	}
	if leaves := g.Leaves(); len(leaves) != 1 || leaves[0] != "resolve" {
		t.Errorf("expected [resolve] leaves, got %v", leaves)
	}
}
