package project

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"squiggle/internal/ast"
	"squiggle/internal/compiler"
	"squiggle/internal/diag"
	"squiggle/internal/pipeline"
	"squiggle/internal/project/dag"
	"squiggle/internal/trace"
	"squiggle/internal/value"
	"squiggle/internal/vm"
)

// Run ensures id has a cached output, running its continuations and
// imports first. Missing imports are loaded through the linker. Concurrent
// calls for the same id share one run.
func (p *Project) Run(ctx context.Context, id string) error {
	t := p.tracerFor(ctx)
	span := trace.ForSource(t, trace.ScopeProject, "run", id, trace.CurrentSpan(ctx))
	ctx = trace.WithSpan(ctx, span)

	_, err, _ := p.runs.Do(id, func() (any, error) {
		return nil, p.runItem(ctx, id, nil)
	})
	span.Fail(err)
	return err
}

// dependency is one external a source needs before it can compile.
type dependency struct {
	id   string
	imp  *Import // nil for continuations
	link diag.ChainLink
}

// runItem runs id once its dependencies are computed. pending holds the
// ids on the current path and is never mutated; a dependency found in it
// is a cycle.
func (p *Project) runItem(ctx context.Context, id string, pending []string) (err error) {
	if err := p.ensureLoaded(ctx, id); err != nil {
		if len(pending) == 0 && diag.IsCode(err, diag.PrjNoLinker) {
			return diag.Errorf(diag.PrjUnknownSource, id, "unknown source %q", id).WithName(id)
		}
		return err
	}

	p.mu.Lock()
	it, ok := p.items[id]
	if !ok {
		p.mu.Unlock()
		return diag.Errorf(diag.PrjUnknownSource, id, "unknown source %q", id).WithName(id)
	}
	switch it.output.state {
	case Computed:
		p.mu.Unlock()
		return nil
	case Failed:
		err := it.output.err
		p.mu.Unlock()
		return err
	}
	gen := it.gen
	text := it.text
	continues := slices.Clone(it.continues)
	injected := it.injected
	env := p.env
	p.mu.Unlock()

	t := p.tracerFor(ctx)
	span := trace.ForSource(t, trace.ScopeSource, "source", id, trace.CurrentSpan(ctx))
	defer func() { span.Fail(err) }()
	ctx = trace.WithSpan(ctx, span)
	p.emit(id, pipeline.StageParse, pipeline.StatusQueued, nil, 0)

	start := time.Now()
	parse := trace.ForSource(t, trace.ScopeSource, "parse", id, span.ID())
	p.mu.Lock()
	tree, perr := p.parseLocked(it)
	var imports []Import
	if perr == nil {
		imports, perr = p.importsLocked(it)
		imports = slices.Clone(imports)
	}
	p.mu.Unlock()
	if perr != nil {
		parse.Fail(perr)
		p.emit(id, pipeline.StageParse, pipeline.StatusError, perr, time.Since(start))
		return p.fail(ctx, it, gen, perr)
	}
	parse.End("")
	p.emit(id, pipeline.StageParse, pipeline.StatusDone, nil, time.Since(start))

	deps := make([]dependency, 0, len(continues)+len(imports))
	for _, c := range continues {
		deps = append(deps, dependency{id: c, link: diag.ChainLink{SourceID: id, Target: c}})
	}
	for i := range imports {
		imp := &imports[i]
		deps = append(deps, dependency{id: imp.SourceID, imp: imp, link: diag.ChainLink{SourceID: id, Target: imp.SourceID, Span: imp.Span}})
	}

	path := append(slices.Clone(pending), id)
	for _, dep := range deps {
		if i := slices.Index(path, dep.id); i >= 0 {
			cycle := append(slices.Clone(path[i:]), dep.id)
			err := diag.ErrorAt(diag.PrjCyclicImport, id, dep.link.Span, "cyclic import: %s", strings.Join(cycle, " -> ")).
				WithName(dep.id)
			err.HasSpan = dep.imp != nil
			return p.fail(ctx, it, gen, err)
		}
	}

	outs := make([]*Output, len(deps))
	for i, dep := range deps {
		if err := p.ensureLoaded(ctx, dep.id); err != nil {
			if dep.imp == nil && diag.IsCode(err, diag.PrjNoLinker) {
				err = diag.Errorf(diag.PrjUnknownSource, id, "continuation %q is not a known source", dep.id).WithName(dep.id)
			}
			return p.fail(ctx, it, gen, through(err, dep))
		}
		if err := p.runItem(ctx, dep.id, path); err != nil {
			return p.fail(ctx, it, gen, through(err, dep))
		}
		out, err := p.GetOutput(dep.id)
		if err != nil {
			// Invalidated while we were running; the store below is stale
			// anyway.
			return through(err, dep)
		}
		outs[i] = out
	}

	externals := p.stdlib
	for i, dep := range deps {
		switch {
		case dep.imp == nil:
			externals = externals.Merge(outs[i].Bindings)
		case dep.imp.Kind == ImportNamed:
			externals = externals.Set(dep.imp.Variable, outs[i].Exports)
		default:
			externals = externals.Merge(outs[i].Exports)
		}
	}
	if injected.Len() > 0 {
		externals = externals.Merge(injected)
	}

	digest := p.digest(text, env, continues, outs, injected)
	if out, ok := p.loadCached(ctx, id, tree, digest); ok {
		p.emit(id, pipeline.StageRun, pipeline.StatusCached, nil, 0)
		p.store(it, gen, out, nil)
		return nil
	}

	start = time.Now()
	p.emit(id, pipeline.StageCompile, pipeline.StatusWorking, nil, 0)
	phase := trace.ForSource(t, trace.ScopeSource, "compile", id, span.ID())
	prog, err := compiler.Compile(id, tree, externals)
	phase.Fail(err)
	if err != nil {
		p.emit(id, pipeline.StageCompile, pipeline.StatusError, err, time.Since(start))
		return p.fail(ctx, it, gen, err)
	}
	p.emit(id, pipeline.StageCompile, pipeline.StatusDone, nil, time.Since(start))

	start = time.Now()
	p.emit(id, pipeline.StageRun, pipeline.StatusWorking, nil, 0)
	phase = trace.ForSource(t, trace.ScopeSource, "evaluate", id, span.ID())
	res, err := vm.Evaluate(ctx, id, prog, env)
	elapsed := time.Since(start)
	phase.Fail(err)
	if err != nil {
		p.emit(id, pipeline.StageRun, pipeline.StatusError, err, elapsed)
		return p.fail(ctx, it, gen, err)
	}
	p.emit(id, pipeline.StageRun, pipeline.StatusDone, nil, elapsed)

	out := &Output{
		SourceID:         id,
		Result:           res.Result,
		Bindings:         res.Bindings,
		Exports:          tagExports(id, res.Bindings),
		HasEndExpression: tree.Program.HasResult(),
		ExecutionTime:    elapsed,
		Profile:          res.Profile,
		Digest:           digest,
	}
	p.storeCached(ctx, out)
	p.store(it, gen, out, nil)
	return nil
}

func through(err error, dep dependency) error {
	de, ok := diag.As(err)
	if !ok || dep.imp == nil {
		return err
	}
	return de.Through(dep.link)
}

// fail records err as the output of it unless the run was cancelled.
func (p *Project) fail(ctx context.Context, it *item, gen uint64, err error) error {
	if ctx.Err() != nil {
		return err
	}
	de, ok := diag.As(err)
	if !ok {
		de = diag.Errorf(diag.PrjDependency, it.id, "%v", err).WithCause(err)
	}
	p.store(it, gen, nil, de)
	return err
}

// store saves a run outcome if it still matches the item generation.
func (p *Project) store(it *item, gen uint64, out *Output, err *diag.Error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if it.gen != gen || p.items[it.id] != it {
		return
	}
	if err != nil {
		it.output = outputCache{state: Failed, err: err}
		return
	}
	it.output = outputCache{state: Computed, out: out}
}

func (p *Project) emit(id string, stage pipeline.Stage, status pipeline.Status, err error, elapsed time.Duration) {
	p.sink.OnEvent(pipeline.Event{Source: id, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
}

// digest combines the source text, environment, continuation ids and the
// digests of all dependencies. It is zero when any input is not
// reproducible.
func (p *Project) digest(text string, env value.Env, continues []string, outs []*Output, injected value.Dict) Digest {
	var zero Digest
	if injected.Len() > 0 {
		return zero
	}
	parts := make([]Digest, 0, len(outs)+2)
	parts = append(parts, HashEnv(env), HashText(strings.Join(continues, "\x00")))
	for _, out := range outs {
		if out.Digest == zero {
			return zero
		}
		parts = append(parts, out.Digest)
	}
	return Combine(HashText(text), parts...)
}

func (p *Project) loadCached(ctx context.Context, id string, tree *ast.Tree, key Digest) (*Output, bool) {
	if p.cache == nil || key == (Digest{}) {
		return nil, false
	}
	snap, ok, err := p.cache.Load(key)
	if err != nil {
		trace.PointFor(p.tracerFor(ctx), trace.ScopeSource, "cache", id, fmt.Sprintf("load: %v", err), trace.CurrentSpan(ctx))
		return nil, false
	}
	if !ok || snap.HasEndExpression != tree.Program.HasResult() {
		return nil, false
	}
	return &Output{
		SourceID:         id,
		Result:           snap.Result,
		Bindings:         snap.Bindings,
		Exports:          tagExports(id, snap.Bindings),
		HasEndExpression: snap.HasEndExpression,
		Digest:           key,
		FromCache:        true,
	}, true
}

func (p *Project) storeCached(ctx context.Context, out *Output) {
	if p.cache == nil || out.Digest == (Digest{}) {
		return
	}
	snap, ok := snapshotOf(out)
	if !ok {
		return
	}
	if err := p.cache.Store(out.Digest, snap); err != nil {
		trace.PointFor(p.tracerFor(ctx), trace.ScopeSource, "cache", out.SourceID, fmt.Sprintf("store: %v", err), trace.CurrentSpan(ctx))
	}
}

// RunAll runs every source in dependency order. Independent sources run
// in parallel, bounded by Options.MaxParallel. Sources on a cycle run last
// and fail with a cyclic-import error. All failures are joined.
func (p *Project) RunAll(ctx context.Context) error {
	order, err := p.GetRunOrder()
	if err != nil {
		return err
	}

	var (
		mu   sync.Mutex
		errs []error
	)
	runBatch := func(batch []string) {
		var g errgroup.Group
		if p.maxParallel > 0 {
			g.SetLimit(p.maxParallel)
		}
		for _, id := range batch {
			g.Go(func() error {
				if err := p.Run(ctx, id); err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
				}
				return nil
			})
		}
		_ = g.Wait()
	}
	for _, batch := range order.Batches {
		if err := ctx.Err(); err != nil {
			return err
		}
		runBatch(batch)
	}
	for _, id := range order.Cyclic {
		if err := p.Run(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RunOrder lists sources in dependency order.
type RunOrder struct {
	Batches [][]string // sources of one batch do not depend on each other
	Cyclic  []string   // sources on or behind a cycle
}

// Flat returns the batches concatenated, followed by the cyclic sources.
func (o RunOrder) Flat() []string {
	var out []string
	for _, b := range o.Batches {
		out = append(out, b...)
	}
	return append(out, o.Cyclic...)
}

// GetRunOrder orders all known sources so that dependencies come first.
// Unparsable sources contribute only their continuations.
func (p *Project) GetRunOrder() (RunOrder, error) {
	return p.runOrder(p.GetSourceIDs())
}

// GetRunOrderFor orders id and its known transitive dependencies.
func (p *Project) GetRunOrderFor(id string) (RunOrder, error) {
	if _, ok := p.GetSource(id); !ok {
		return RunOrder{}, diag.Errorf(diag.PrjUnknownSource, id, "unknown source %q", id).WithName(id)
	}
	seen := map[string]struct{}{id: {}}
	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		deps, err := p.GetDependencies(cur)
		if err != nil {
			deps, _ = p.GetContinues(cur)
		}
		for _, d := range deps {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			stack = append(stack, d)
		}
	}
	ids := make([]string, 0, len(seen))
	for s := range seen {
		if _, ok := p.GetSource(s); ok {
			ids = append(ids, s)
		}
	}
	slices.Sort(ids)
	return p.runOrder(ids)
}

func (p *Project) runOrder(ids []string) (RunOrder, error) {
	nodes := make([]dag.Node, 0, len(ids))
	for _, id := range ids {
		deps, err := p.GetDependencies(id)
		if err != nil {
			if !parseFailure(err) {
				return RunOrder{}, err
			}
			deps, _ = p.GetContinues(id)
		}
		nodes = append(nodes, dag.Node{ID: id, Deps: deps})
	}
	idx := dag.BuildIndex(nodes)
	g, _ := dag.BuildGraph(idx, nodes)
	topo := dag.ToposortKahn(g)

	order := RunOrder{Batches: make([][]string, 0, len(topo.Batches))}
	for _, b := range topo.Batches {
		order.Batches = append(order.Batches, idx.Names(b))
	}
	if topo.Cyclic {
		order.Cyclic = idx.Names(topo.Cycles)
	}
	return order, nil
}

// parseFailure reports errors that leave a source without import edges but
// still orderable by its continuations.
func parseFailure(err error) bool {
	de, ok := diag.As(err)
	if !ok {
		return false
	}
	switch de.Kind() {
	case diag.KindParse, diag.KindImportDecl, diag.KindLoad:
		return true
	}
	return false
}
