package valuepath

import (
	"squiggle/internal/ast"
	"squiggle/internal/source"
)

// FindByOffset maps a byte offset of the source to the path of the value
// defined there. Offsets inside the end expression are rooted at the
// result, all others at the bindings. Nothing matched yields a root path.
func FindByOffset(tree *ast.Tree, offset uint32) Path {
	prog := &tree.Program
	if prog.HasResult() {
		if e := tree.Exprs.Get(prog.Result); e != nil && e.Span.Contains(offset) {
			return Path{Root: RootResult, Edges: exprEdges(tree, prog.Result, offset)}
		}
	}
	for _, id := range prog.Stmts {
		st := tree.Stmts.Get(id)
		if !st.Span.Contains(offset) {
			continue
		}
		edges := []Edge{KeyEdge(st.Name)}
		edges = append(edges, exprEdges(tree, st.Value, offset)...)
		return Path{Root: RootBindings, Edges: edges}
	}
	return Path{Root: RootBindings}
}

func exprEdges(tree *ast.Tree, id ast.ExprID, offset uint32) []Edge {
	e := tree.Exprs.Get(id)
	if e == nil {
		return nil
	}
	switch e.Kind {
	case ast.ExprRecord:
		data, _ := tree.Exprs.Record(id)
		for _, entry := range data.Entries {
			if !entry.Span.Contains(offset) {
				continue
			}
			if entry.Shorthand {
				return []Edge{KeyEdge(entry.Key)}
			}
			return append([]Edge{KeyEdge(entry.Key)}, exprEdges(tree, entry.Value, offset)...)
		}
	case ast.ExprArray:
		data, _ := tree.Exprs.Array(id)
		for i, el := range data.Elements {
			if elem := tree.Exprs.Get(el); elem != nil && elem.Span.Contains(offset) {
				return append([]Edge{IndexEdge(i)}, exprEdges(tree, el, offset)...)
			}
		}
	case ast.ExprBlock:
		if inner, ok := transparentBlock(tree, id); ok {
			return exprEdges(tree, inner, offset)
		}
	}
	return nil
}

// transparentBlock unwraps `{ [..] }` and `{ {..} }`: a block with no
// statements whose value is a list or a dict.
func transparentBlock(tree *ast.Tree, id ast.ExprID) (ast.ExprID, bool) {
	data, _ := tree.Exprs.Block(id)
	if data == nil || len(data.Stmts) != 0 {
		return ast.NoExprID, false
	}
	inner := tree.Exprs.Get(data.Result)
	if inner == nil || (inner.Kind != ast.ExprArray && inner.Kind != ast.ExprRecord) {
		return ast.NoExprID, false
	}
	return data.Result, true
}

// FindSpan is the inverse of FindByOffset: the span of the syntax node that
// produces the value at path. A binding path resolves to the last
// statement defining the name.
func FindSpan(tree *ast.Tree, path Path) (source.Span, bool) {
	prog := &tree.Program
	var id ast.ExprID
	edges := path.Edges
	switch path.Root {
	case RootResult:
		if !prog.HasResult() {
			return source.Span{}, false
		}
		id = prog.Result
	case RootBindings:
		if len(edges) == 0 || edges[0].Kind != EdgeKey {
			return prog.Span, len(edges) == 0
		}
		var found *ast.Stmt
		for _, sid := range prog.Stmts {
			if st := tree.Stmts.Get(sid); st.Name == edges[0].Key {
				found = st
			}
		}
		if found == nil {
			return source.Span{}, false
		}
		if len(edges) == 1 {
			return found.Span, true
		}
		id = found.Value
		edges = edges[1:]
	}

	for _, edge := range edges {
		if inner, ok := transparentBlock(tree, id); ok {
			id = inner
		}
		next, ok := childFor(tree, id, edge)
		if !ok {
			return source.Span{}, false
		}
		id = next
	}
	e := tree.Exprs.Get(id)
	if e == nil {
		return source.Span{}, false
	}
	return e.Span, true
}

func childFor(tree *ast.Tree, id ast.ExprID, edge Edge) (ast.ExprID, bool) {
	e := tree.Exprs.Get(id)
	if e == nil {
		return ast.NoExprID, false
	}
	switch {
	case e.Kind == ast.ExprRecord && edge.Kind == EdgeKey:
		data, _ := tree.Exprs.Record(id)
		for i := len(data.Entries) - 1; i >= 0; i-- {
			if data.Entries[i].Key == edge.Key {
				return data.Entries[i].Value, true
			}
		}
	case e.Kind == ast.ExprArray && edge.Kind == EdgeIndex:
		data, _ := tree.Exprs.Array(id)
		if edge.Index >= 0 && edge.Index < len(data.Elements) {
			return data.Elements[edge.Index], true
		}
	}
	return ast.NoExprID, false
}
