// Package testkit holds checks shared by parser tests and fuzz harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"squiggle/internal/ast"
	"squiggle/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed
// program:
// 1) the program span lies within the content
// 2) imports, statements and the result expression have non-empty spans
// inside the program span, in source order
// 3) the program span covers the union of those spans
func CheckSpanInvariants(tree *ast.Tree, content []byte) error {
	if tree == nil {
		return fmt.Errorf("nil tree")
	}
	prog := &tree.Program
	lenContent, err := safecast.Conv[uint32](len(content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if prog.Span.End > lenContent || prog.Span.End < prog.Span.Start {
		return fmt.Errorf("program span %v outside content of %d bytes", prog.Span, lenContent)
	}

	var (
		union    source.Span
		haveItem bool
		prevEnd  uint32
	)
	check := func(what string, sp source.Span) error {
		if sp.End <= sp.Start {
			return fmt.Errorf("empty %s span: %v", what, sp)
		}
		if sp.Start < prog.Span.Start || sp.End > prog.Span.End {
			return fmt.Errorf("%s span %v is outside program span %v", what, sp, prog.Span)
		}
		if sp.Start < prevEnd {
			return fmt.Errorf("%s span %v overlaps the previous item ending at %d", what, sp, prevEnd)
		}
		prevEnd = sp.End
		if !haveItem {
			union, haveItem = sp, true
		} else {
			union = union.Cover(sp)
		}
		return nil
	}

	for _, imp := range prog.Imports {
		if err := check("import", imp.Span); err != nil {
			return err
		}
	}
	for _, id := range prog.Stmts {
		st := tree.Stmts.Get(id)
		if st == nil {
			return fmt.Errorf("nil statement for id=%d", id)
		}
		if err := check("statement", st.Span); err != nil {
			return err
		}
	}
	if prog.HasResult() {
		e := tree.Exprs.Get(prog.Result)
		if e == nil {
			return fmt.Errorf("nil result expression")
		}
		if err := check("result", e.Span); err != nil {
			return err
		}
	}

	if haveItem && (union.Start < prog.Span.Start || union.End > prog.Span.End) {
		return fmt.Errorf("program span %v does not cover union of items %v", prog.Span, union)
	}
	return nil
}
