package valuepath

import (
	"strings"
	"testing"

	"squiggle/internal/ast"
	"squiggle/internal/parser"
)

func parse(t *testing.T, text string) *ast.Tree {
	t.Helper()
	tree, err := parser.Parse("main", text)
	if err != nil {
		t.Fatalf("parse %q: %v", text, err)
	}
	return tree
}

// offsetOf returns the offset of the n-th (0-based) occurrence of needle.
func offsetOf(t *testing.T, text, needle string, n int) uint32 {
	t.Helper()
	base := 0
	for i := 0; ; i++ {
		idx := strings.Index(text[base:], needle)
		if idx < 0 {
			t.Fatalf("%q not found %d times in %q", needle, n+1, text)
		}
		if i == n {
			return uint32(base + idx) // #nosec G115 -- test input
		}
		base += idx + len(needle)
	}
}

func TestFindByOffset(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		needle string
		nth    int
		want   string
	}{
		{"end expression record", "{a: 1, b: [2,3]}", "3", 0, "result/b/1"},
		{"binding record", "x = {a: 1, b: [2,3]}", "3", 0, "bindings/x/b/1"},
		{"binding name", "x = 5\ny = 6", "y", 0, "bindings/y"},
		{"defun", "f(t) = t + 1", "t +", 0, "bindings/f"},
		{"shorthand final", "a = 1\nr = {a, b: 2}", "a,", 0, "bindings/r/a"},
		{"transparent block", "x = { [10, 20] }", "20", 0, "bindings/x/1"},
		{"opaque block", "x = { y = [1]; y }", "1", 0, "bindings/x"},
		{"nested lists", "[[1, 2], [3, [4, 5]]]", "5", 0, "result/1/1/1"},
		{"outside everything", "x = 1\n\n\ny = 2", "\n\n", 0, "bindings/"},
		{"string key", `r = {"a b": [1]}`, "1", 0, "bindings/r/a b/0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := parse(t, tt.text)
			off := offsetOf(t, tt.text, tt.needle, tt.nth)
			if tt.name == "outside everything" {
				off++
			}
			got := FindByOffset(tree, off)
			if got.String() != tt.want {
				t.Fatalf("path = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFindSpanInvertsFindByOffset(t *testing.T) {
	text := "x = {a: 1, b: [2, {c: 3}]}\n[x, 4]"
	tree := parse(t, text)
	tests := []struct {
		path Path
		want string
	}{
		{New(RootBindings, KeyEdge("x"), KeyEdge("b"), IndexEdge(1), KeyEdge("c")), "3"},
		{New(RootBindings, KeyEdge("x"), KeyEdge("a")), "1"},
		{New(RootResult, IndexEdge(1)), "4"},
		{New(RootBindings, KeyEdge("x"), KeyEdge("b")), "[2, {c: 3}]"},
	}
	for _, tt := range tests {
		span, ok := FindSpan(tree, tt.path)
		if !ok {
			t.Fatalf("%s: not found", tt.path)
		}
		if got := text[span.Start:span.End]; got != tt.want {
			t.Fatalf("%s: span text = %q, want %q", tt.path, got, tt.want)
		}
		if back := FindByOffset(tree, span.Start); !back.Equal(tt.path) {
			t.Fatalf("%s: round trip gave %s", tt.path, back)
		}
	}

	if _, ok := FindSpan(tree, New(RootBindings, KeyEdge("missing"))); ok {
		t.Fatalf("missing binding resolved")
	}
	if _, ok := FindSpan(tree, New(RootResult, IndexEdge(7))); ok {
		t.Fatalf("out of range index resolved")
	}
}

func TestPathOperations(t *testing.T) {
	p := New(RootBindings, KeyEdge("x"), IndexEdge(2), KeyEdge("f(a)"))
	if p.UID() != `bindings/Key:(x)/Index:(2)/Key:(f\(a\))` {
		t.Fatalf("uid = %s", p.UID())
	}
	if p.String() != "bindings/x/2/f(a)" {
		t.Fatalf("string = %s", p)
	}
	parent, ok := p.Parent()
	if !ok || parent.String() != "bindings/x/2" {
		t.Fatalf("parent = %s", parent)
	}
	if !p.HasPrefix(parent) || parent.HasPrefix(p) {
		t.Fatalf("prefix relation broken")
	}
	if p.HasPrefix(New(RootResult, KeyEdge("x"))) {
		t.Fatalf("prefix across roots")
	}
	if !parent.Extend(KeyEdge("f(a)")).Equal(p) {
		t.Fatalf("extend(parent) != p")
	}
	last, _ := p.LastItem()
	if last.Kind != EdgeKey || last.Key != "f(a)" {
		t.Fatalf("last = %+v", last)
	}
	root := New(RootResult)
	if !root.IsRoot() {
		t.Fatalf("root path not root")
	}
	if _, ok := root.Parent(); ok {
		t.Fatalf("root has a parent")
	}
	prefixes := p.AllPrefixPaths(true)
	if len(prefixes) != 4 || !prefixes[0].IsRoot() || !prefixes[3].Equal(p) {
		t.Fatalf("prefixes = %v", prefixes)
	}
	if len(p.AllPrefixPaths(false)) != 3 {
		t.Fatalf("prefixes without root = %v", p.AllPrefixPaths(false))
	}
}

func TestExtendDoesNotAlias(t *testing.T) {
	base := New(RootBindings, KeyEdge("a"))
	base.Edges = append(make([]Edge, 0, 8), base.Edges...)
	x := base.Extend(KeyEdge("x"))
	y := base.Extend(KeyEdge("y"))
	if x.String() != "bindings/a/x" || y.String() != "bindings/a/y" {
		t.Fatalf("extend aliased: %s %s", x, y)
	}
}
