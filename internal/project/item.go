package project

import (
	"squiggle/internal/ast"
	"squiggle/internal/diag"
	"squiggle/internal/source"
	"squiggle/internal/value"
)

// CacheState is the state of one of an item's caches.
type CacheState uint8

const (
	NotComputed CacheState = iota
	Computed
	Failed
)

func (s CacheState) String() string {
	switch s {
	case Computed:
		return "computed"
	case Failed:
		return "failed"
	}
	return "not computed"
}

type ImportKind uint8

const (
	// ImportFlat merges the exported bindings into scope.
	ImportFlat ImportKind = iota
	// ImportNamed binds the exports dict under Variable.
	ImportNamed
)

func (k ImportKind) String() string {
	if k == ImportNamed {
		return "named"
	}
	return "flat"
}

// Import is a resolved import declaration.
type Import struct {
	SourceID string
	Kind     ImportKind
	Variable string // set iff Kind == ImportNamed
	Name     string // path as written
	Span     source.Span
}

type parseCache struct {
	state CacheState
	tree  *ast.Tree
	err   *diag.Error
}

type importCache struct {
	state   CacheState
	imports []Import
	err     *diag.Error
}

type outputCache struct {
	state CacheState
	out   *Output
	err   *diag.Error
}

// item is the per-source state. Guarded by Project.mu.
type item struct {
	id        string
	text      string
	continues []string
	// gen is bumped whenever text, continuations or the output change so a
	// run that started earlier cannot store a stale result.
	gen uint64

	parse   parseCache
	imports importCache
	output  outputCache

	// importEdges are the import ids whose inverse edges are registered.
	// They survive cache clears and change only when imports are resolved
	// again or the text is replaced.
	importEdges []string

	// injected bindings override everything else; used by lambda calls.
	injected value.Dict
}

func (it *item) clearAll() {
	it.parse = parseCache{}
	it.imports = importCache{}
	it.output = outputCache{}
	it.gen++
}

func (it *item) clearOutput() {
	it.output = outputCache{}
	it.gen++
}

