// Package valuepath addresses values inside a run output: a root (the end
// expression's result or the top-level bindings) followed by dict keys and
// list indices.
package valuepath

import (
	"slices"
	"strconv"
	"strings"
)

type Root uint8

const (
	RootResult Root = iota
	RootBindings
)

func (r Root) String() string {
	if r == RootResult {
		return "result"
	}
	return "bindings"
}

type EdgeKind uint8

const (
	EdgeKey EdgeKind = iota
	EdgeIndex
)

// Edge is one step into a dict (Key) or a list (Index).
type Edge struct {
	Kind  EdgeKind
	Key   string
	Index int
}

func KeyEdge(key string) Edge { return Edge{Kind: EdgeKey, Key: key} }
func IndexEdge(i int) Edge { return Edge{Kind: EdgeIndex, Index: i} }

func (e Edge) Equal(other Edge) bool {
	if e.Kind != other.Kind {
		return false
	}
	if e.Kind == EdgeKey {
		return e.Key == other.Key
	}
	return e.Index == other.Index
}

// String is the display form: the key or the index.
func (e Edge) String() string {
	if e.Kind == EdgeKey {
		return e.Key
	}
	return strconv.Itoa(e.Index)
}

var parenEscaper = strings.NewReplacer("(", `\(`, ")", `\)`)

// UID is unambiguous: Key:(name) or Index:(n), parentheses in keys escaped.
func (e Edge) UID() string {
	if e.Kind == EdgeKey {
		return "Key:(" + parenEscaper.Replace(e.Key) + ")"
	}
	return "Index:(" + strconv.Itoa(e.Index) + ")"
}

// Path is immutable; Extend and Parent return new paths.
type Path struct {
	Root  Root
	Edges []Edge
}

func New(root Root, edges ...Edge) Path {
	return Path{Root: root, Edges: slices.Clone(edges)}
}

func (p Path) IsRoot() bool {
	return len(p.Edges) == 0
}

func (p Path) LastItem() (Edge, bool) {
	if len(p.Edges) == 0 {
		return Edge{}, false
	}
	return p.Edges[len(p.Edges)-1], true
}

// Parent drops the last edge; root paths have no parent.
func (p Path) Parent() (Path, bool) {
	if len(p.Edges) == 0 {
		return Path{}, false
	}
	return Path{Root: p.Root, Edges: slices.Clone(p.Edges[:len(p.Edges)-1])}, true
}

func (p Path) Extend(e Edge) Path {
	edges := make([]Edge, 0, len(p.Edges)+1)
	edges = append(edges, p.Edges...)
	edges = append(edges, e)
	return Path{Root: p.Root, Edges: edges}
}

func (p Path) UID() string {
	parts := make([]string, len(p.Edges))
	for i, e := range p.Edges {
		parts[i] = e.UID()
	}
	return p.Root.String() + "/" + strings.Join(parts, "/")
}

func (p Path) String() string {
	parts := make([]string, len(p.Edges))
	for i, e := range p.Edges {
		parts[i] = e.String()
	}
	return p.Root.String() + "/" + strings.Join(parts, "/")
}

// MarshalText renders the display form, used by JSON and YAML output.
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// HasPrefix reports whether prefix addresses p or one of its ancestors.
func (p Path) HasPrefix(prefix Path) bool {
	if p.Root != prefix.Root || len(p.Edges) < len(prefix.Edges) {
		return false
	}
	for i := range prefix.Edges {
		if !p.Edges[i].Equal(prefix.Edges[i]) {
			return false
		}
	}
	return true
}

func (p Path) Equal(other Path) bool {
	return len(p.Edges) == len(other.Edges) && p.HasPrefix(other)
}

// AllPrefixPaths lists every ancestor of p, shortest first, ending with p.
func (p Path) AllPrefixPaths(includeRoot bool) []Path {
	out := make([]Path, 0, len(p.Edges)+1)
	if includeRoot {
		out = append(out, Path{Root: p.Root})
	}
	for i := range p.Edges {
		out = append(out, Path{Root: p.Root, Edges: slices.Clone(p.Edges[:i+1])})
	}
	return out
}

// Keys returns the edges as strings, keys and indices alike.
func (p Path) Keys() []string {
	out := make([]string, len(p.Edges))
	for i, e := range p.Edges {
		out[i] = e.String()
	}
	return out
}
