package dag

import (
	"slices"
	"strings"

	"squiggle/internal/diag"
)

// Graph edges point from a dependency to its dependents, so a topological
// order runs dependencies first.
type Graph struct {
	Edges   [][]NodeID // Edges[dep] = dependents
	Indeg   []int      // number of present dependencies, for Kahn
	Present []bool     // the source exists, not only referenced
}

// Missing is a dependency that no node defines.
type Missing struct {
	From string
	Dep  string
}

// BuildGraph builds the dependency graph. A self-dependency is kept as an
// edge so the node ends up among the cycles.
func BuildGraph(idx Index, nodes []Node) (Graph, []Missing) {
	count := len(idx.IDToName)
	g := Graph{
		Edges:   make([][]NodeID, count),
		Indeg:   make([]int, count),
		Present: make([]bool, count),
	}
	for _, n := range nodes {
		if id, ok := idx.NameToID[n.ID]; ok {
			g.Present[int(id)] = true
		}
	}

	var missing []Missing
	seenNode := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		if _, dup := seenNode[n.ID]; dup || n.ID == "" {
			continue
		}
		seenNode[n.ID] = struct{}{}
		from := idx.NameToID[n.ID]
		seen := make(map[NodeID]struct{}, len(n.Deps))
		for _, dep := range n.Deps {
			depID, ok := idx.NameToID[dep]
			if !ok {
				continue
			}
			if _, dup := seen[depID]; dup {
				continue
			}
			seen[depID] = struct{}{}
			if !g.Present[int(depID)] {
				missing = append(missing, Missing{From: n.ID, Dep: dep})
				continue
			}
			g.Edges[int(depID)] = append(g.Edges[int(depID)], from)
			g.Indeg[int(from)]++
		}
	}
	for i := range g.Edges {
		if len(g.Edges[i]) > 1 {
			slices.Sort(g.Edges[i])
		}
	}
	return g, missing
}

// CycleError describes the sources left over by a topological sort.
func CycleError(idx Index, topo *Topo) *diag.Error {
	if !topo.Cyclic || len(topo.Cycles) == 0 {
		return nil
	}
	names := idx.Names(topo.Cycles)
	return diag.Errorf(diag.PrjCyclicImport, names[0], "sources participate in a dependency cycle: %s", strings.Join(names, " -> ")).
		WithName(names[0])
}
