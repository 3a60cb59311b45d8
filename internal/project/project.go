// Package project manages a set of named sources, the dependencies between
// them and their cached run outputs.
//
// A source depends on its continuations (sources whose bindings it sees
// implicitly) and on the sources it imports. Running a source first runs
// all of its dependencies, loading missing imports through the Linker.
// Changing a source clears its caches and the outputs of every source that
// transitively depends on it.
package project

import (
	"context"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"

	"squiggle/internal/diag"
	"squiggle/internal/pipeline"
	"squiggle/internal/stdlib"
	"squiggle/internal/trace"
	"squiggle/internal/value"
)

// Linker resolves import names and loads source text.
type Linker interface {
	// Resolve maps an import name written in fromID to a source id.
	Resolve(name, fromID string) (string, error)
	// LoadSource fetches the text of id.
	LoadSource(ctx context.Context, id string) (string, error)
}

// Options configure a Project. Zero values are usable.
type Options struct {
	Linker Linker
	Env    value.Env
	// Stdlib replaces the standard library bindings when non-nil.
	Stdlib *value.Dict
	Sink   pipeline.ProgressSink
	Cache  OutputCache
	Tracer trace.Tracer
	// MaxParallel bounds RunAll concurrency; 0 means unbounded.
	MaxParallel int
}

type Project struct {
	mu         sync.Mutex
	items      map[string]*item
	dependents map[string]map[string]struct{} // id -> ids depending on it
	env        value.Env

	linker      Linker
	stdlib      value.Dict
	sink        pipeline.ProgressSink
	cache       OutputCache
	tracer      trace.Tracer
	maxParallel int

	runs  singleflight.Group
	loads singleflight.Group
}

func New(opts Options) *Project {
	p := &Project{
		items:       make(map[string]*item),
		dependents:  make(map[string]map[string]struct{}),
		env:         opts.Env,
		linker:      opts.Linker,
		sink:        opts.Sink,
		cache:       opts.Cache,
		tracer:      opts.Tracer,
		maxParallel: opts.MaxParallel,
	}
	if p.env.SampleCount == 0 {
		p.env = value.DefaultEnv()
	}
	if opts.Stdlib != nil {
		p.stdlib = *opts.Stdlib
	} else {
		p.stdlib = stdlib.Bindings()
	}
	if p.sink == nil {
		p.sink = pipeline.NopSink{}
	}
	if p.tracer == nil {
		p.tracer = trace.Nop
	}
	return p
}

// SetLinker installs or replaces the linker.
func (p *Project) SetLinker(l Linker) {
	p.mu.Lock()
	p.linker = l
	p.mu.Unlock()
}

// Env returns the runtime environment.
func (p *Project) Env() value.Env {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.env
}

// SetEnv replaces the runtime environment. Cached outputs are kept.
func (p *Project) SetEnv(env value.Env) {
	p.mu.Lock()
	p.env = env
	p.mu.Unlock()
}

// SetSource creates the source or replaces its text, clearing its caches
// and the outputs of its transitive dependents.
func (p *Project) SetSource(id, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setSourceLocked(id, text)
}

func (p *Project) setSourceLocked(id, text string) {
	if it, ok := p.items[id]; ok {
		p.retractImportEdges(it)
		it.text = text
		it.clearAll()
	} else {
		p.items[id] = &item{id: id, text: text}
	}
	p.invalidate(id)
}

// RemoveSource deletes a source. Unknown ids are ignored.
func (p *Project) RemoveSource(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	it, ok := p.items[id]
	if !ok {
		return
	}
	p.invalidate(id)
	p.retractImportEdges(it)
	for _, c := range it.continues {
		p.removeEdge(c, id)
	}
	it.continues = nil
	it.clearAll()
	delete(p.items, id)
}

// SetContinues replaces the continuation list of id.
func (p *Project) SetContinues(id string, continues []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	it, ok := p.items[id]
	if !ok {
		return diag.Errorf(diag.PrjUnknownSource, id, "unknown source %q", id).WithName(id)
	}
	for _, c := range it.continues {
		if !slices.Contains(continues, c) && !slices.Contains(it.importEdges, c) {
			p.removeEdge(c, id)
		}
	}
	for _, c := range continues {
		p.addEdge(c, id)
	}
	it.continues = slices.Clone(continues)
	it.clearAll()
	p.invalidate(id)
	return nil
}

// TouchSource clears the caches of id as if its text had changed.
func (p *Project) TouchSource(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	it, ok := p.items[id]
	if !ok {
		return diag.Errorf(diag.PrjUnknownSource, id, "unknown source %q", id).WithName(id)
	}
	it.clearAll()
	p.invalidate(id)
	return nil
}

// Clean drops the cached output of id, keeping the parse.
func (p *Project) Clean(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if it, ok := p.items[id]; ok {
		it.clearOutput()
	}
}

// CleanAll drops every cached output.
func (p *Project) CleanAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, it := range p.items {
		it.clearOutput()
	}
}

// GetSource returns the text of id.
func (p *Project) GetSource(id string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	it, ok := p.items[id]
	if !ok {
		return "", false
	}
	return it.text, true
}

// GetSourceIDs lists known sources in lexical order.
func (p *Project) GetSourceIDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]string, 0, len(p.items))
	for id := range p.items {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (p *Project) GetContinues(id string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	it, ok := p.items[id]
	if !ok {
		return nil, diag.Errorf(diag.PrjUnknownSource, id, "unknown source %q", id).WithName(id)
	}
	return slices.Clone(it.continues), nil
}

// GetImports parses id if needed and returns its resolved imports.
func (p *Project) GetImports(id string) ([]Import, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	it, ok := p.items[id]
	if !ok {
		return nil, diag.Errorf(diag.PrjUnknownSource, id, "unknown source %q", id).WithName(id)
	}
	imports, err := p.importsLocked(it)
	if err != nil {
		return nil, err
	}
	return slices.Clone(imports), nil
}

func (p *Project) GetImportIDs(id string) ([]string, error) {
	imports, err := p.GetImports(id)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(imports))
	for i, imp := range imports {
		ids[i] = imp.SourceID
	}
	return ids, nil
}

// GetDependencies returns continuations followed by imported ids, without
// duplicates. Import declarations are parsed if needed.
func (p *Project) GetDependencies(id string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	it, ok := p.items[id]
	if !ok {
		return nil, diag.Errorf(diag.PrjUnknownSource, id, "unknown source %q", id).WithName(id)
	}
	imports, err := p.importsLocked(it)
	if err != nil {
		return nil, err
	}
	deps := slices.Clone(it.continues)
	for _, imp := range imports {
		if !slices.Contains(deps, imp.SourceID) {
			deps = append(deps, imp.SourceID)
		}
	}
	return deps, nil
}

// GetDependents returns the ids that directly depend on id, sorted.
func (p *Project) GetDependents(id string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.dependents[id]))
	for dep := range p.dependents[id] {
		out = append(out, dep)
	}
	slices.Sort(out)
	return out
}
