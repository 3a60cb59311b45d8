package project

import (
	"fmt"
	"slices"

	"squiggle/internal/trace"
)

func (p *Project) addEdge(dep, dependent string) {
	set, ok := p.dependents[dep]
	if !ok {
		set = make(map[string]struct{})
		p.dependents[dep] = set
	}
	set[dependent] = struct{}{}
}

func (p *Project) removeEdge(dep, dependent string) {
	set, ok := p.dependents[dep]
	if !ok {
		return
	}
	delete(set, dependent)
	if len(set) == 0 {
		delete(p.dependents, dep)
	}
}

// retractImportEdges drops the inverse edges contributed by the imports
// of it, keeping those a continuation also needs.
func (p *Project) retractImportEdges(it *item) {
	p.syncImportEdges(it, nil)
}

// syncImportEdges makes ids the registered import edges of it.
func (p *Project) syncImportEdges(it *item, ids []string) {
	for _, dep := range it.importEdges {
		if !slices.Contains(ids, dep) && !slices.Contains(it.continues, dep) {
			p.removeEdge(dep, it.id)
		}
	}
	for _, dep := range ids {
		p.addEdge(dep, it.id)
	}
	it.importEdges = ids
}

// invalidate clears the output of every transitive dependent of origin.
// The origin itself is left to the caller.
func (p *Project) invalidate(origin string) {
	visited := map[string]struct{}{origin: {}}
	var walk func(id string)
	walk = func(id string) {
		for dep := range p.dependents[id] {
			if _, seen := visited[dep]; seen {
				continue
			}
			visited[dep] = struct{}{}
			if it, ok := p.items[dep]; ok {
				it.clearOutput()
			}
			walk(dep)
		}
	}
	walk(origin)
	trace.PointFor(p.tracer, trace.ScopeProject, "invalidate", origin, fmt.Sprintf("%d dependents", len(visited)-1), 0)
}
