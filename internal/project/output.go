package project

import (
	"time"

	"squiggle/internal/diag"
	"squiggle/internal/source"
	"squiggle/internal/value"
	"squiggle/internal/valuepath"
	"squiggle/internal/vm"
)

// Output is the cached result of running one source.
type Output struct {
	SourceID string
	Result   value.Value
	Bindings value.Dict
	// Exports are the bindings tagged with their source and path.
	Exports          value.Dict
	HasEndExpression bool
	ExecutionTime    time.Duration
	Profile          []vm.StatementTiming
	// Digest identifies the inputs of the run; zero when the output
	// depends on injected values.
	Digest    Digest
	FromCache bool
}

// Location addresses a value produced by a source.
type Location struct {
	Project  *Project
	SourceID string
	Path     valuepath.Path
}

// Extend returns the location of a child value.
func (l Location) Extend(e valuepath.Edge) Location {
	l.Path = l.Path.Extend(e)
	return l
}

// Span returns the span of the syntax node that produced the value.
func (l Location) Span() (source.Span, error) {
	return l.Project.FindLocationByValuePath(l.SourceID, l.Path)
}

// Located is a value together with its location.
type Located struct {
	Value    value.Value
	Location Location
}

// Child descends into a dict key or an array index.
func (v Located) Child(e valuepath.Edge) (Located, bool) {
	var child value.Value
	switch e.Kind {
	case valuepath.EdgeKey:
		d, ok := v.Value.(value.Dict)
		if !ok {
			return Located{}, false
		}
		if child, ok = d.Get(e.Key); !ok {
			return Located{}, false
		}
	case valuepath.EdgeIndex:
		a, ok := v.Value.(value.Array)
		if !ok || e.Index < 0 || e.Index >= len(a.Items) {
			return Located{}, false
		}
		child = a.Items[e.Index]
	default:
		return Located{}, false
	}
	return Located{Value: child, Location: v.Location.Extend(e)}, true
}

func (p *Project) located(id string, root valuepath.Root, v value.Value) Located {
	return Located{Value: v, Location: Location{Project: p, SourceID: id, Path: valuepath.New(root)}}
}

// GetOutput returns the cached output of id. A source that was never run
// yields a needs-run error; a failed run yields its error.
func (p *Project) GetOutput(id string) (*Output, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	it, ok := p.items[id]
	if !ok {
		return nil, diag.Errorf(diag.PrjUnknownSource, id, "unknown source %q", id).WithName(id)
	}
	switch it.output.state {
	case Computed:
		return it.output.out, nil
	case Failed:
		return nil, it.output.err
	}
	return nil, diag.Errorf(diag.PrjNeedsRun, id, "source %q needs to be run", id).WithName(id)
}

// GetResult returns the end expression value of id, located at the result
// root.
func (p *Project) GetResult(id string) (Located, error) {
	out, err := p.GetOutput(id)
	if err != nil {
		return Located{}, err
	}
	return p.located(id, valuepath.RootResult, out.Result), nil
}

// GetBindings returns the top-level bindings of id as a dict.
func (p *Project) GetBindings(id string) (Located, error) {
	out, err := p.GetOutput(id)
	if err != nil {
		return Located{}, err
	}
	return p.located(id, valuepath.RootBindings, out.Bindings), nil
}

// GetExports returns the tagged bindings of id.
func (p *Project) GetExports(id string) (Located, error) {
	out, err := p.GetOutput(id)
	if err != nil {
		return Located{}, err
	}
	return p.located(id, valuepath.RootBindings, out.Exports), nil
}

// FindValuePathByOffset maps a byte offset in the text of id to the path
// of the innermost value written there. The source must have been parsed.
func (p *Project) FindValuePathByOffset(id string, offset uint32) (valuepath.Path, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	it, ok := p.items[id]
	if !ok {
		return valuepath.Path{}, diag.Errorf(diag.PrjUnknownSource, id, "unknown source %q", id).WithName(id)
	}
	switch it.parse.state {
	case Computed:
		return valuepath.FindByOffset(it.parse.tree, offset), nil
	case Failed:
		return valuepath.Path{}, it.parse.err
	}
	return valuepath.Path{}, diag.Errorf(diag.PrjNotParsed, id, "source %q has not been parsed", id).WithName(id)
}

// FindLocationByValuePath returns the span of the syntax node producing
// the value at path. The source is parsed if needed.
func (p *Project) FindLocationByValuePath(id string, path valuepath.Path) (source.Span, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	it, ok := p.items[id]
	if !ok {
		return source.Span{}, diag.Errorf(diag.PrjUnknownSource, id, "unknown source %q", id).WithName(id)
	}
	tree, err := p.parseLocked(it)
	if err != nil {
		return source.Span{}, err
	}
	sp, found := valuepath.FindSpan(tree, path)
	if !found {
		return source.Span{}, diag.Errorf(diag.PrjUnknownSource, id, "no value at %s", path.String()).WithName(path.String())
	}
	return sp, nil
}

// tagExports marks every binding with its origin and names the dict after
// the source.
func tagExports(id string, bindings value.Dict) value.Dict {
	exports := bindings.Map(func(key string, v value.Value) value.Value {
		tags := v.Tags()
		tags.Export = &value.ExportData{SourceID: id, Path: []string{key}}
		if tags.Name == "" {
			tags.Name = key
		}
		return v.WithTags(tags)
	})
	tags := exports.Tags()
	tags.Name = id
	return exports.WithTags(tags).(value.Dict)
}
