package compiler

import (
	"testing"

	"squiggle/internal/ast"
	"squiggle/internal/diag"
	"squiggle/internal/parser"
	"squiggle/internal/value"
)

func builtin(name string) value.Value {
	return value.NewLambda(&value.Builtin{FnName: name, Impl: func(value.Caller, []value.Value) (value.Value, error) {
		return value.NewVoid(), nil
	}})
}

func testExternals() value.Dict {
	return value.NewDict(
		value.Entry{Key: "add", Value: builtin("add")},
		value.Entry{Key: ast.IndexLookupFunction, Value: builtin(ast.IndexLookupFunction)},
		value.Entry{Key: "ten", Value: value.NewNumber(10)},
	)
}

func compileText(t *testing.T, text string) (string, error) {
	t.Helper()
	tree, perr := parser.Parse("main", text)
	if perr != nil {
		t.Fatalf("parse %q: %v", text, perr)
	}
	prog, err := Compile("main", tree, testExternals())
	if err != nil {
		return "", err
	}
	return prog.String(), nil
}

func TestCompileResolution(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"locals", "x = 1\ny = x\ny", "(Program (Assign x 1) (Assign y $0) $0)"},
		{"external inlined", "ten", "(Program 10)"},
		{"infix", "x = 1\nx + ten", "(Program (Assign x 1) (<add> $0 10))"},
		{"block shadows", "x = 1\n{ x = 2; x }", "(Program (Assign x 1) (Block (Assign x 2) $0))"},
		{"block sees outer", "x = 1\n{ y = 2; x }", "(Program (Assign x 1) (Block (Assign y 2) $1))"},
		{"local shadows external", "ten = 3\nten", "(Program (Assign ten 3) $0)"},
		{"block local shadows external", "{ ten = 1; ten }", "(Program (Block (Assign ten 1) $0))"},
		{"param shadows external", "f(ten) = ten", "(Program (Assign f (Lambda (ten) [] $0)))"},
		{"captured param shadows external", "g = {|ten| {|y| ten}}",
			"(Program (Assign g (Lambda (ten) [] (Lambda (y) [$0] ^0))))"},
		{"block in lambda shadows external", "f(x) = { ten = x; ten }",
			"(Program (Assign f (Lambda (x) [] (Block (Assign ten $0) $0))))"},
		{"dot lookup", "r = {a: 1}\nr.a", `(Program (Assign r (Dict "a":1)) (<$_atIndex_$> $0 "a"))`},
		{"pipe", "x = 1\nx -> add(2)", "(Program (Assign x 1) (<add> $0 2))"},
		{"capture", "a = 1\nf = {|x| a + x}\nf",
			"(Program (Assign a 1) (Assign f (Lambda (x) [$0] (<add> ^0 $0))) $0)"},
		{"capture chain", "a = 1\nf = {|x| {|y| a}}",
			"(Program (Assign a 1) (Assign f (Lambda (x) [$0] (Lambda (y) [^0] ^0))))"},
		{"external not captured", "f(x) = x + ten",
			"(Program (Assign f (Lambda (x) [] (<add> $0 10))))"},
		{"capture reused", "a = 1\nf(x) = a + a",
			"(Program (Assign a 1) (Assign f (Lambda (x) [$0] (<add> ^0 ^0))))"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := compileText(t, tt.text)
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestCompileSymbolNotFound(t *testing.T) {
	tests := []struct {
		text string
		name string
	}{
		{"z + 1", "z"},
		{"f = {|x| f(x)}", "f"},
		{"x = y\ny = 1", "y"},
		{"b = { a = 1; a }\na", "a"},
		{"f(x) = x\nx", "x"},
	}
	for _, tt := range tests {
		_, err := compileText(t, tt.text)
		if err == nil {
			t.Fatalf("%q: expected error", tt.text)
		}
		de, ok := diag.As(err)
		if !ok || de.Code != diag.SemaSymbolNotFound {
			t.Fatalf("%q: err = %v, want symbol not found", tt.text, err)
		}
		if de.Name != tt.name {
			t.Fatalf("%q: name = %q, want %q", tt.text, de.Name, tt.name)
		}
		if de.Kind() != diag.KindSymbolNotFound {
			t.Fatalf("%q: kind = %v", tt.text, de.Kind())
		}
	}
}

func TestProgramBindings(t *testing.T) {
	tree, perr := parser.Parse("main", "x = 1\ny = 2\nx = 3")
	if perr != nil {
		t.Fatalf("parse: %v", perr)
	}
	prog, err := Compile("main", tree, value.EmptyDict())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if len(prog.Order) != 2 || prog.Order[0] != "x" || prog.Order[1] != "y" {
		t.Fatalf("order = %v", prog.Order)
	}
	if prog.Bindings["x"] != 0 || prog.Bindings["y"] != 1 {
		t.Fatalf("bindings = %v", prog.Bindings)
	}
	if prog.Result != nil {
		t.Fatalf("unexpected result %s", prog.Result)
	}
}

func TestCompileIsDeterministic(t *testing.T) {
	text := "a = 1\nf(x) = a + x\n{ b = f(2); [b, {c: b}] }"
	first, err := compileText(t, text)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	for range 3 {
		again, err := compileText(t, text)
		if err != nil || again != first {
			t.Fatalf("compile not deterministic: %s vs %s (%v)", again, first, err)
		}
	}
}
