package testkit

import (
	"testing"

	"squiggle/internal/parser"
)

func TestCheckSpanInvariants(t *testing.T) {
	sources := []string{
		"",
		"1",
		"import \"a\" as a\nimport \"b\" as *\nx = a.y\nf(v) = v + x\nf(2)",
		"// lead\nr = {a: [1, 2], b: {|x| x}}\n",
		"{ t = 1; t }",
	}
	for _, src := range sources {
		tree, err := parser.Parse("t", src)
		if err != nil {
			t.Fatalf("parse %q: %v", src, err)
		}
		if err := CheckSpanInvariants(tree, []byte(src)); err != nil {
			t.Fatalf("%q: %v", src, err)
		}
	}
}

func TestCheckSpanInvariantsRejectsBadTree(t *testing.T) {
	src := "x = 1\ny = 2"
	tree, err := parser.Parse("t", src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := CheckSpanInvariants(tree, []byte("x")); err == nil {
		t.Fatalf("expected error for truncated content")
	}
	tree.Program.Stmts[0], tree.Program.Stmts[1] = tree.Program.Stmts[1], tree.Program.Stmts[0]
	if err := CheckSpanInvariants(tree, []byte(src)); err == nil {
		t.Fatalf("expected error for out-of-order statements")
	}
}
