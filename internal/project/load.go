package project

import (
	"context"
	"time"

	"squiggle/internal/diag"
	"squiggle/internal/pipeline"
	"squiggle/internal/trace"
)

// ensureLoaded fetches id through the linker unless the project already
// has it. Concurrent loads of one id share a single linker call.
func (p *Project) ensureLoaded(ctx context.Context, id string) error {
	p.mu.Lock()
	_, ok := p.items[id]
	linker := p.linker
	p.mu.Unlock()
	if ok {
		return nil
	}
	if linker == nil {
		return diag.Errorf(diag.PrjNoLinker, id, "cannot load %q without a linker", id).WithName(id)
	}

	_, err, _ := p.loads.Do(id, func() (any, error) {
		t := p.tracerFor(ctx)
		span := trace.ForSource(t, trace.ScopeSource, "load", id, trace.CurrentSpan(ctx))
		p.sink.OnEvent(pipeline.Event{Source: id, Stage: pipeline.StageLoad, Status: pipeline.StatusWorking})
		start := time.Now()

		text, err := linker.LoadSource(ctx, id)
		if err != nil {
			derr := diag.Errorf(diag.PrjLoadFailed, id, "failed to load %q", id).WithName(id).WithCause(err)
			p.sink.OnEvent(pipeline.Event{Source: id, Stage: pipeline.StageLoad, Status: pipeline.StatusError, Err: derr, Elapsed: time.Since(start)})
			span.Fail(derr)
			return nil, derr
		}

		p.mu.Lock()
		// Added without a cascade: importers waiting for this text have
		// nothing cached yet.
		if _, exists := p.items[id]; !exists {
			p.items[id] = &item{id: id, text: text}
		}
		p.mu.Unlock()

		p.sink.OnEvent(pipeline.Event{Source: id, Stage: pipeline.StageLoad, Status: pipeline.StatusDone, Elapsed: time.Since(start)})
		span.End("")
		return nil, nil
	})
	return err
}

// LoadImportsRecursively loads every source reachable from id through
// imports and continuations without running anything.
func (p *Project) LoadImportsRecursively(ctx context.Context, id string) error {
	if err := p.ensureLoaded(ctx, id); err != nil {
		return err
	}
	visited := map[string]struct{}{id: {}}
	queue := []string{id}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		cur := queue[0]
		queue = queue[1:]

		p.mu.Lock()
		it, ok := p.items[cur]
		if !ok {
			p.mu.Unlock()
			continue
		}
		imports, ierr := p.importsLocked(it)
		continues := append([]string(nil), it.continues...)
		p.mu.Unlock()
		if ierr != nil {
			return ierr
		}

		links := make([]diag.ChainLink, 0, len(continues)+len(imports))
		for _, c := range continues {
			links = append(links, diag.ChainLink{SourceID: cur, Target: c})
		}
		for _, imp := range imports {
			links = append(links, diag.ChainLink{SourceID: cur, Target: imp.SourceID, Span: imp.Span})
		}
		for _, link := range links {
			if _, seen := visited[link.Target]; seen {
				continue
			}
			visited[link.Target] = struct{}{}
			if err := p.ensureLoaded(ctx, link.Target); err != nil {
				if de, ok := diag.As(err); ok {
					return de.Through(link)
				}
				return err
			}
			queue = append(queue, link.Target)
		}
	}
	return nil
}

func (p *Project) tracerFor(ctx context.Context) trace.Tracer {
	if t := trace.FromContext(ctx); t.Enabled() {
		return t
	}
	return p.tracer
}
