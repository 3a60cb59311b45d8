// Package dag orders project sources so every source runs after the
// sources it depends on, and reports the ones stuck in cycles.
package dag

import (
	"sort"
)

type NodeID uint32

// Node is one source and the ids it depends on (continuations and imports).
type Node struct {
	ID   string
	Deps []string
}

type Index struct {
	NameToID map[string]NodeID
	IDToName []string
}

// BuildIndex collects every id mentioned by nodes, sorts them and numbers
// them in order.
func BuildIndex(nodes []Node) Index {
	uniq := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		if n.ID != "" {
			uniq[n.ID] = struct{}{}
		}
		for _, dep := range n.Deps {
			if dep != "" {
				uniq[dep] = struct{}{}
			}
		}
	}

	names := make([]string, 0, len(uniq))
	for name := range uniq {
		names = append(names, name)
	}
	sort.Strings(names)

	nameToID := make(map[string]NodeID, len(names))
	for i, name := range names {
		nameToID[name] = NodeID(i) // #nosec G115 -- bounded by the number of sources
	}
	return Index{NameToID: nameToID, IDToName: names}
}

// Names maps ids back to source ids.
func (idx Index) Names(ids []NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = idx.IDToName[int(id)]
	}
	return out
}
