package vm

import (
	"context"
	"testing"

	"squiggle/internal/compiler"
	"squiggle/internal/diag"
	"squiggle/internal/parser"
	"squiggle/internal/stdlib"
	"squiggle/internal/value"
)

func run(t *testing.T, text string, env value.Env) (Result, error) {
	t.Helper()
	return runCtx(t, context.Background(), text, env)
}

func runCtx(t *testing.T, ctx context.Context, text string, env value.Env) (Result, error) {
	t.Helper()
	tree, perr := parser.Parse("main", text)
	if perr != nil {
		t.Fatalf("parse %q: %v", text, perr)
	}
	prog, err := compiler.Compile("main", tree, stdlib.Bindings())
	if err != nil {
		t.Fatalf("compile %q: %v", text, err)
	}
	return Evaluate(ctx, "main", prog, env)
}

func TestEvaluateResults(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"arithmetic", "x = 5\ny = x + 2\ny * 3", "21"},
		{"precedence", "2 + 3 * 4 ^ 2", "50"},
		{"strings", `"a" ++ "b"`, `"ab"`},
		{"block result", "a = { b = 1; b + 1 }\nc = 10\na + c", "12"},
		{"closure", "make(n) = {|x| x + n}\nadd3 = make(3)\nadd3(4)", "7"},
		{"nested closure", "a = 1\nf(x) = {|y| a + x + y}\nf(10)(100)", "111"},
		{"ternary", `1 < 2 ? "yes" : "no"`, `"yes"`},
		{"if", "if 1 > 2 then 1 else 2", "2"},
		{"dict lookup", "r = {a: 1, b: {c: [5, 6]}}\nr.b.c[1]", "6"},
		{"shorthand", "a = 3\nb = 4\n{a, b}", "{a: 3, b: 4}"},
		{"list map", "List.map([1, 2, 3], {|x| x * 2})", "[2, 4, 6]"},
		{"pipe", "[1, 2] -> List.map({|x| x + 1})", "[2, 3]"},
		{"reduce", "List.reduce([1, 2, 3], 0, {|acc, x| acc + x})", "6"},
		{"void", "()", "()"},
		{"no end expression", "x = 1", "()"},
		{"sample count", "sampleCount()", "1000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := run(t, tt.text, value.DefaultEnv())
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if got := res.Result.String(); got != tt.want {
				t.Fatalf("result = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBindingsSurviveBlocks(t *testing.T) {
	res, err := run(t, "a = { b = 1; b + 1 }\nc = 10\na = a * 5", value.DefaultEnv())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got := res.Bindings.String(); got != "{a: 10, c: 10}" {
		t.Fatalf("bindings = %s", got)
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		code diag.Code
	}{
		{"index range", "[1, 2][5]", diag.RunIndexRange},
		{"missing key", "{a: 1}.b", diag.RunKeyNotFound},
		{"arity", "f(x) = x\nf(1, 2)", diag.RunArity},
		{"builtin arity", "List.length()", diag.RunArity},
		{"not callable", "x = 1\nx(2)", diag.RunNotCallable},
		{"condition type", "if 3 then 1 else 2", diag.RunTypeMismatch},
		{"operand type", `1 + "a"`, diag.RunTypeMismatch},
		{"mod zero", "Math.mod(1, 0)", diag.RunDivisionZero},
		{"overflow", "f(g) = g(g)\nf(f)", diag.RunStackOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.text, value.DefaultEnv())
			de, ok := diag.As(err)
			if !ok {
				t.Fatalf("err = %v, want diag error", err)
			}
			if de.Code != tt.code {
				t.Fatalf("code = %s, want %s (%v)", de.Code, tt.code, err)
			}
			if de.Kind() != diag.KindRuntime {
				t.Fatalf("kind = %v, want runtime", de.Kind())
			}
			if !de.HasSpan || de.SourceID != "main" {
				t.Fatalf("error not located: %+v", de)
			}
		})
	}
}

func TestErrorInsideLambdaHasBacktrace(t *testing.T) {
	_, err := run(t, "f(x) = x + \"s\"\ng(y) = f(y)\ng(1)", value.DefaultEnv())
	de, ok := diag.As(err)
	if !ok || de.Code != diag.RunTypeMismatch {
		t.Fatalf("err = %v", err)
	}
	if len(de.Frames) != 2 || de.Frames[0].Name != "f" || de.Frames[1].Name != "g" {
		t.Fatalf("frames = %+v", de.Frames)
	}
}

func TestSeededRandomIsReproducible(t *testing.T) {
	env := value.DefaultEnv()
	env.Seed = 42
	a, err := run(t, "[random(), uniform(1, 2)]", env)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	b, err := run(t, "[random(), uniform(1, 2)]", env)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !value.Equal(a.Result, b.Result) {
		t.Fatalf("same seed gave %s and %s", a.Result, b.Result)
	}
	env.Seed = 43
	c, err := run(t, "[random(), uniform(1, 2)]", env)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if value.Equal(a.Result, c.Result) {
		t.Fatalf("different seeds gave the same samples %s", a.Result)
	}
}

func TestCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := runCtx(t, ctx, "List.make(5000, {|| 1 + 1})", value.DefaultEnv())
	if !diag.IsCode(err, diag.RunCancelled) {
		t.Fatalf("err = %v, want cancelled", err)
	}
}

func TestCallValueAfterRun(t *testing.T) {
	res, err := run(t, "k = 10\nf(x, y) = x * y + k", value.DefaultEnv())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	f, ok := res.Bindings.Get("f")
	if !ok {
		t.Fatalf("f not bound")
	}
	got, err := CallValue(context.Background(), value.DefaultEnv(), f, []value.Value{value.NewNumber(2), value.NewNumber(3)})
	if err != nil {
		t.Fatalf("CallValue: %v", err)
	}
	if got.String() != "16" {
		t.Fatalf("f(2, 3) = %s, want 16", got)
	}
	if _, err := CallValue(context.Background(), value.DefaultEnv(), value.NewNumber(1), nil); !diag.IsCode(err, diag.RunNotCallable) {
		t.Fatalf("err = %v, want not callable", err)
	}
}

func TestProfile(t *testing.T) {
	env := value.DefaultEnv()
	env.Profile = true
	res, err := run(t, "a = 1\nb = a + 1\nb", env)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(res.Profile) != 2 || res.Profile[0].Name != "a" || res.Profile[1].Name != "b" {
		t.Fatalf("profile = %+v", res.Profile)
	}
}
