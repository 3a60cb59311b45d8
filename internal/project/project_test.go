package project

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"squiggle/internal/diag"
	"squiggle/internal/linker"
	"squiggle/internal/pipeline"
	"squiggle/internal/trace"
	"squiggle/internal/value"
	"squiggle/internal/valuepath"
)

// runCounter counts finished evaluations per source.
type runCounter struct {
	mu   sync.Mutex
	runs map[string]int
}

func (c *runCounter) OnEvent(ev pipeline.Event) {
	if ev.Stage != pipeline.StageRun || ev.Status != pipeline.StatusDone {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.runs == nil {
		c.runs = make(map[string]int)
	}
	c.runs[ev.Source]++
}

func (c *runCounter) count(id string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runs[id]
}

func mustRun(t *testing.T, p *Project, id string) {
	t.Helper()
	if err := p.Run(context.Background(), id); err != nil {
		t.Fatalf("run %s: %v", id, err)
	}
}

func resultString(t *testing.T, p *Project, id string) string {
	t.Helper()
	res, err := p.GetResult(id)
	if err != nil {
		t.Fatalf("result %s: %v", id, err)
	}
	return res.Value.String()
}

func setContinues(t *testing.T, p *Project, id string, deps ...string) {
	t.Helper()
	if err := p.SetContinues(id, deps); err != nil {
		t.Fatalf("set continues %s: %v", id, err)
	}
}

func TestContinuationChain(t *testing.T) {
	p := New(Options{})
	p.SetSource("p1", "x = 5")
	p.SetSource("p2", "y = x + 2")
	p.SetSource("main", "y + 3")
	setContinues(t, p, "p2", "p1")
	setContinues(t, p, "main", "p2")

	mustRun(t, p, "main")
	if got := resultString(t, p, "main"); got != "10" {
		t.Fatalf("main = %s, want 10", got)
	}
	bindings, err := p.GetBindings("p2")
	if err != nil {
		t.Fatalf("bindings: %v", err)
	}
	if got := bindings.Value.String(); got != "{y: 7}" {
		t.Fatalf("p2 bindings = %s", got)
	}
	out, _ := p.GetOutput("p2")
	if out.HasEndExpression {
		t.Fatalf("p2 has no end expression")
	}
}

var tutorialSources = map[string]string{
	"source1": "x=1",
	"source2": "\n  import \"source1\" as s1\n  y=2",
	"source3": "\n  import \"source2\" as s2\n  z=3",
}

const tutorialMain = `
  import "source1" as s1
  import "source2" as s2
  import "source3" as s3
  a = s1.x + s2.y + s3.z
  b = doubleX // available through continues
  a
`

const tutorialDoubleX = `
  import "source1" as s1
  doubleX = s1.x * 2
`

func checkTutorial(t *testing.T, p *Project) {
	t.Helper()
	if got := resultString(t, p, "main"); got != "6" {
		t.Fatalf("result = %s, want 6", got)
	}
	bindings, err := p.GetBindings("main")
	if err != nil {
		t.Fatalf("bindings: %v", err)
	}
	want := value.NewDict(
		value.Entry{Key: "a", Value: value.NewNumber(6)},
		value.Entry{Key: "b", Value: value.NewNumber(2)},
	)
	if !value.Equal(bindings.Value, want) {
		t.Fatalf("bindings = %s, want %s", bindings.Value, want)
	}
}

func TestTutorialImports(t *testing.T) {
	l := linker.NewMapLinker(tutorialSources)
	p := New(Options{Linker: l})
	p.SetSource("main", tutorialMain)
	p.SetSource("doubleX", tutorialDoubleX)
	setContinues(t, p, "main", "doubleX")

	mustRun(t, p, "main")
	checkTutorial(t, p)
	if l.Loads() != 3 {
		t.Fatalf("loads = %d, want 3", l.Loads())
	}
}

func TestTutorialLoadThenRunAll(t *testing.T) {
	ctx := context.Background()
	p := New(Options{Linker: linker.NewMapLinker(tutorialSources), MaxParallel: 2})
	p.SetSource("main", tutorialMain)
	if err := p.LoadImportsRecursively(ctx, "main"); err != nil {
		t.Fatalf("load main: %v", err)
	}
	p.SetSource("doubleX", tutorialDoubleX)
	if err := p.LoadImportsRecursively(ctx, "doubleX"); err != nil {
		t.Fatalf("load doubleX: %v", err)
	}
	setContinues(t, p, "main", "doubleX")

	ids := p.GetSourceIDs()
	if strings.Join(ids, ",") != "doubleX,main,source1,source2,source3" {
		t.Fatalf("ids = %v", ids)
	}
	if err := p.RunAll(ctx); err != nil {
		t.Fatalf("run all: %v", err)
	}
	checkTutorial(t, p)
}

func TestInvalidationChain(t *testing.T) {
	p := New(Options{})
	p.SetSource("a", "x = 1")
	p.SetSource("b", "y = x + 1")
	p.SetSource("c", "y * 10")
	setContinues(t, p, "b", "a")
	setContinues(t, p, "c", "b")
	mustRun(t, p, "c")

	p.SetSource("a", "x = 2")
	for _, id := range []string{"a", "b", "c"} {
		if _, err := p.GetOutput(id); !diag.IsKind(err, diag.KindNeedsRun) {
			t.Fatalf("%s output after change: %v, want needs-run", id, err)
		}
	}
	mustRun(t, p, "c")
	if got := resultString(t, p, "c"); got != "30" {
		t.Fatalf("c = %s, want 30", got)
	}

	// Only dependents are touched.
	p.SetSource("c", "y")
	if _, err := p.GetOutput("b"); err != nil {
		t.Fatalf("b lost its output: %v", err)
	}
}

func TestDiamondCascade(t *testing.T) {
	counter := &runCounter{}
	p := New(Options{Sink: counter})
	p.SetSource("a", "x = 1")
	p.SetSource("b", "y = x + 1")
	p.SetSource("c", "z = x + 2")
	p.SetSource("d", "y + z")
	setContinues(t, p, "b", "a")
	setContinues(t, p, "c", "a")
	setContinues(t, p, "d", "b", "c")
	mustRun(t, p, "d")
	if got := resultString(t, p, "d"); got != "5" {
		t.Fatalf("d = %s, want 5", got)
	}
	if counter.count("a") != 1 {
		t.Fatalf("a ran %d times", counter.count("a"))
	}

	if err := p.TouchSource("a"); err != nil {
		t.Fatalf("touch: %v", err)
	}
	if got := p.GetDependents("a"); strings.Join(got, ",") != "b,c" {
		t.Fatalf("dependents of a = %v", got)
	}
	mustRun(t, p, "d")
	for id, want := range map[string]int{"a": 2, "b": 2, "c": 2, "d": 2} {
		if got := counter.count(id); got != want {
			t.Fatalf("%s ran %d times, want %d", id, got, want)
		}
	}
}

func TestCyclicImports(t *testing.T) {
	tests := []struct {
		name    string
		sources map[string]string
		run     string
	}{
		{"pair", map[string]string{"a": "import \"b\" as b\nx = 1", "b": "import \"a\" as a\ny = 2"}, "a"},
		{"self", map[string]string{"a": "import \"a\" as me\nx = 1"}, "a"},
		{"through continuation", map[string]string{"a": "import \"b\" as b\nx = 1", "b": "y = 2"}, "b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(Options{Linker: linker.NewMapLinker(nil)})
			for id, text := range tt.sources {
				p.SetSource(id, text)
			}
			if tt.name == "through continuation" {
				setContinues(t, p, "b", "a")
			}
			err := p.Run(context.Background(), tt.run)
			if !diag.IsKind(err, diag.KindCyclicImport) {
				t.Fatalf("run = %v, want cyclic import", err)
			}
			// The failure is cached, not retried in a loop.
			if _, err := p.GetOutput(tt.run); !diag.IsKind(err, diag.KindCyclicImport) {
				t.Fatalf("cached output = %v", err)
			}
		})
	}
}

func TestCycleRecoversAfterEdit(t *testing.T) {
	p := New(Options{Linker: linker.NewMapLinker(nil)})
	p.SetSource("a", "import \"b\" as b\nb.y + 1")
	p.SetSource("b", "import \"a\" as a\ny = 2")
	if err := p.Run(context.Background(), "a"); err == nil {
		t.Fatalf("expected a cycle")
	}
	p.SetSource("b", "y = 2")
	mustRun(t, p, "a")
	if got := resultString(t, p, "a"); got != "3" {
		t.Fatalf("a = %s, want 3", got)
	}
}

func TestExternalsOrder(t *testing.T) {
	p := New(Options{Linker: linker.NewMapLinker(nil)})
	p.SetSource("one", "x = 1\nsampleCount = 7")
	p.SetSource("two", "x = 2")
	p.SetSource("three", "x = 3")
	p.SetSource("named", "x = 4")

	tests := []struct {
		name string
		text string
		want string
	}{
		{"later continuation wins", "x", "2"},
		{"continuation overrides stdlib", "sampleCount", "7"},
		{"flat import overrides continuations", "import \"three\" as *\nx", "3"},
		{"named import", "import \"named\" as n\n[x, n.x]", "[2, 4]"},
		{"local shadows externals", "x = 10\nx", "10"},
		{"redefinition", "x = 10\nx = x + 1\nx", "11"},
		{"block scope", "y = { x = 100; x }\n[x, y]", "[2, 100]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p.SetSource("main", tt.text)
			setContinues(t, p, "main", "one", "two")
			mustRun(t, p, "main")
			if got := resultString(t, p, "main"); got != tt.want {
				t.Fatalf("main = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRunIsIdempotent(t *testing.T) {
	counter := &runCounter{}
	l := linker.NewMapLinker(map[string]string{"lib": "k = 2"})
	p := New(Options{Linker: l, Sink: counter})
	p.SetSource("main", "import \"lib\" as lib\nlib.k * 21")
	mustRun(t, p, "main")
	first, _ := p.GetOutput("main")
	mustRun(t, p, "main")
	second, _ := p.GetOutput("main")
	if first != second {
		t.Fatalf("second run replaced the output")
	}
	if l.Loads() != 1 || counter.count("main") != 1 || counter.count("lib") != 1 {
		t.Fatalf("loads=%d main runs=%d lib runs=%d", l.Loads(), counter.count("main"), counter.count("lib"))
	}
	if got := resultString(t, p, "main"); got != "42" {
		t.Fatalf("main = %s", got)
	}
}

func TestConcurrentRuns(t *testing.T) {
	counter := &runCounter{}
	p := New(Options{Linker: linker.NewMapLinker(tutorialSources), Sink: counter})
	p.SetSource("main", tutorialMain)
	p.SetSource("doubleX", tutorialDoubleX)
	setContinues(t, p, "main", "doubleX")

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- p.Run(context.Background(), "main")
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	}
	checkTutorial(t, p)
}

func TestOutputErrors(t *testing.T) {
	p := New(Options{})
	p.SetSource("main", "1 +")
	if _, err := p.GetOutput("main"); !diag.IsCode(err, diag.PrjNeedsRun) {
		t.Fatalf("before run: %v", err)
	}
	if _, err := p.GetOutput("ghost"); !diag.IsCode(err, diag.PrjUnknownSource) {
		t.Fatalf("unknown: %v", err)
	}
	if err := p.Run(context.Background(), "ghost"); !diag.IsCode(err, diag.PrjUnknownSource) {
		t.Fatalf("run unknown: %v", err)
	}
	if err := p.Run(context.Background(), "main"); !diag.IsKind(err, diag.KindParse) {
		t.Fatalf("parse error: %v", err)
	}
	if _, err := p.GetResult("main"); !diag.IsKind(err, diag.KindParse) {
		t.Fatalf("cached parse error: %v", err)
	}

	p.SetSource("main", "y = nope + 1")
	err := p.Run(context.Background(), "main")
	de, ok := diag.As(err)
	if !ok || de.Kind() != diag.KindSymbolNotFound || de.Name != "nope" {
		t.Fatalf("symbol error: %v", err)
	}

	p.SetSource("main", "[1, 2][5]")
	if err := p.Run(context.Background(), "main"); !diag.IsKind(err, diag.KindRuntime) {
		t.Fatalf("runtime error: %v", err)
	}
}

func TestDependencyErrorCarriesChain(t *testing.T) {
	l := linker.NewMapLinker(map[string]string{"lib": "import \"deep\" as d\nx = 1"})
	p := New(Options{Linker: l})
	p.SetSource("main", "import \"lib\" as lib\nlib.x")
	err := p.Run(context.Background(), "main")
	de, ok := diag.As(err)
	if !ok || de.Code != diag.PrjLoadFailed || de.Name != "deep" {
		t.Fatalf("err = %v", err)
	}
	if len(de.Chain) != 2 || de.Chain[0].SourceID != "lib" || de.Chain[1].SourceID != "main" {
		t.Fatalf("chain = %+v", de.Chain)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("linker error lost: %v", err)
	}
}

func TestLoadFailureRetry(t *testing.T) {
	l := linker.NewMapLinker(map[string]string{"lib": "x = 1"})
	l.Fail("lib", errors.New("network down"))
	p := New(Options{Linker: l})
	p.SetSource("main", "import \"lib\" as lib\nlib.x + 1")

	if err := p.Run(context.Background(), "main"); !diag.IsKind(err, diag.KindLoad) {
		t.Fatalf("first run: %v", err)
	}
	l.Fail("lib", nil)
	if err := p.Run(context.Background(), "main"); !diag.IsKind(err, diag.KindLoad) {
		t.Fatalf("failure should stay cached until touched: %v", err)
	}
	if err := p.TouchSource("main"); err != nil {
		t.Fatalf("touch: %v", err)
	}
	mustRun(t, p, "main")
	if got := resultString(t, p, "main"); got != "2" {
		t.Fatalf("main = %s", got)
	}

	// Setting the missing source directly also clears the importer.
	l2 := linker.NewMapLinker(nil)
	p2 := New(Options{Linker: l2})
	p2.SetSource("main", "import \"lib\" as lib\nlib.x + 1")
	if err := p2.Run(context.Background(), "main"); err == nil {
		t.Fatalf("expected a load error")
	}
	p2.SetSource("lib", "x = 41")
	mustRun(t, p2, "main")
	if got := resultString(t, p2, "main"); got != "42" {
		t.Fatalf("main = %s", got)
	}
}

func TestImportsWithoutLinker(t *testing.T) {
	p := New(Options{})
	p.SetSource("main", "import \"lib\" as lib\nlib.x")
	if err := p.Run(context.Background(), "main"); !diag.IsCode(err, diag.PrjNoLinker) {
		t.Fatalf("run = %v", err)
	}
	p.SetSource("lib", "x = 5")
	err := p.Run(context.Background(), "main")
	if !diag.IsCode(err, diag.PrjNoLinker) {
		t.Fatalf("run with lib present = %v", err)
	}
	if de, _ := diag.As(err); de == nil || !de.HasSpan || de.Name != "lib" {
		t.Fatalf("error = %+v", de)
	}
	if _, err := p.GetImports("main"); !diag.IsCode(err, diag.PrjNoLinker) {
		t.Fatalf("imports = %v", err)
	}
	mustRun(t, p, "lib")
}

func TestRemoveSource(t *testing.T) {
	p := New(Options{})
	p.SetSource("a", "x = 1")
	p.SetSource("b", "x + 1")
	setContinues(t, p, "b", "a")
	mustRun(t, p, "b")

	p.RemoveSource("a")
	p.RemoveSource("missing")
	if _, ok := p.GetSource("a"); ok {
		t.Fatalf("a still present")
	}
	if _, err := p.GetOutput("b"); !diag.IsKind(err, diag.KindNeedsRun) {
		t.Fatalf("b output = %v", err)
	}
	if err := p.Run(context.Background(), "b"); !diag.IsCode(err, diag.PrjUnknownSource) {
		t.Fatalf("run b = %v", err)
	}

	setContinues(t, p, "b")
	if got := p.GetDependents("a"); len(got) != 0 {
		t.Fatalf("edges left behind: %v", got)
	}
}

func TestDependencies(t *testing.T) {
	p := New(Options{Linker: linker.NewMapLinker(nil)})
	p.SetSource("main", "import \"x\" as x\nimport \"y\" as *\n1")
	setContinues(t, p, "main", "base", "x")

	deps, err := p.GetDependencies("main")
	if err != nil {
		t.Fatalf("deps: %v", err)
	}
	if strings.Join(deps, ",") != "base,x,y" {
		t.Fatalf("deps = %v", deps)
	}
	for _, id := range []string{"base", "x", "y"} {
		if got := p.GetDependents(id); len(got) != 1 || got[0] != "main" {
			t.Fatalf("dependents of %s = %v", id, got)
		}
	}
	imports, _ := p.GetImports("main")
	if imports[0].Kind != ImportNamed || imports[0].Variable != "x" || imports[1].Kind != ImportFlat {
		t.Fatalf("imports = %+v", imports)
	}

	// Re-setting the text retracts import edges but keeps the continuation.
	p.SetSource("main", "1")
	if got := p.GetDependents("y"); len(got) != 0 {
		t.Fatalf("y dependents = %v", got)
	}
	if got := p.GetDependents("x"); len(got) != 1 {
		t.Fatalf("x continuation edge lost: %v", got)
	}
}

func TestImportEdgesSurviveCacheClears(t *testing.T) {
	p := New(Options{Linker: linker.NewMapLinker(nil)})
	p.SetSource("lib", "x = 1")
	p.SetSource("other", "y = 2")
	p.SetSource("main", "import \"lib\" as lib\nlib.x")
	mustRun(t, p, "main")

	check := func(step string) {
		t.Helper()
		if got := p.GetDependents("lib"); strings.Join(got, ",") != "main" {
			t.Fatalf("%s: dependents of lib = %v", step, got)
		}
	}
	check("run")
	setContinues(t, p, "main", "other")
	check("set continues")
	if err := p.TouchSource("main"); err != nil {
		t.Fatalf("touch: %v", err)
	}
	check("touch")

	// Dropping a continuation that is also imported keeps the shared edge.
	setContinues(t, p, "main", "lib")
	setContinues(t, p, "main")
	check("continuation dropped")
	if got := p.GetDependents("other"); len(got) != 0 {
		t.Fatalf("other dependents = %v", got)
	}
}

func TestFindValuePathByOffset(t *testing.T) {
	p := New(Options{})
	text := "{a: 1, b: [2,3]}"
	p.SetSource("main", text)
	if _, err := p.FindValuePathByOffset("main", 0); !diag.IsCode(err, diag.PrjNotParsed) {
		t.Fatalf("unparsed = %v", err)
	}
	mustRun(t, p, "main")

	path, err := p.FindValuePathByOffset("main", uint32(strings.Index(text, "3")))
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if path.Root != valuepath.RootResult || strings.Join(path.Keys(), ",") != "b,1" {
		t.Fatalf("path = %s", path)
	}

	res, _ := p.GetResult("main")
	child, ok := res.Child(valuepath.KeyEdge("b"))
	if !ok {
		t.Fatalf("no child b")
	}
	child, ok = child.Child(valuepath.IndexEdge(1))
	if !ok || child.Value.String() != "3" || !child.Location.Path.Equal(path) {
		t.Fatalf("child = %v at %s", child.Value, child.Location.Path)
	}
	span, err := child.Location.Span()
	if err != nil || text[span.Start:span.End] != "3" {
		t.Fatalf("span = %v, %v", span, err)
	}
}

func TestExportsAreTagged(t *testing.T) {
	p := New(Options{})
	p.SetSource("lib", "x = 1\ny = [2]")
	mustRun(t, p, "lib")
	exports, err := p.GetExports("lib")
	if err != nil {
		t.Fatalf("exports: %v", err)
	}
	if exports.Value.Tags().Name != "lib" {
		t.Fatalf("exports name = %q", exports.Value.Tags().Name)
	}
	y, _ := exports.Value.(value.Dict).Get("y")
	tags := y.Tags()
	if tags.Export == nil || tags.Export.SourceID != "lib" || strings.Join(tags.Export.Path, "/") != "y" {
		t.Fatalf("y tags = %+v", tags)
	}
}

func TestCallLambda(t *testing.T) {
	ctx := context.Background()
	p := New(Options{})
	p.SetSource("base", "k = 10")
	p.SetSource("main", "f(x) = x + k\ng = {|a, b| a * b}\nnested = {fs: [f]}")
	setContinues(t, p, "main", "base")
	mustRun(t, p, "main")

	bindings, _ := p.GetBindings("main")
	f, _ := bindings.Child(valuepath.KeyEdge("f"))
	got, err := p.CallLambda(ctx, f, []value.Value{value.NewNumber(5)})
	if err != nil || got.String() != "15" {
		t.Fatalf("f(5) = %v, %v", got, err)
	}
	g, _ := bindings.Child(valuepath.KeyEdge("g"))
	got, err = p.CallLambda(ctx, g, []value.Value{value.NewNumber(6), value.NewNumber(7)})
	if err != nil || got.String() != "42" {
		t.Fatalf("g(6, 7) = %v, %v", got, err)
	}
	fs, _ := bindings.Child(valuepath.KeyEdge("nested"))
	fs, _ = fs.Child(valuepath.KeyEdge("fs"))
	inner, ok := fs.Child(valuepath.IndexEdge(0))
	if !ok {
		t.Fatalf("no nested lambda")
	}
	got, err = p.CallLambda(ctx, inner, []value.Value{value.NewNumber(1)})
	if err != nil || got.String() != "11" {
		t.Fatalf("nested.fs[0](1) = %v, %v", got, err)
	}
	if ids := p.GetSourceIDs(); strings.Join(ids, ",") != "base,main" {
		t.Fatalf("synthetic source left behind: %v", ids)
	}
	if got := p.GetDependents("main"); len(got) != 0 {
		t.Fatalf("synthetic edge left behind: %v", got)
	}

	if _, err := p.CallLambda(ctx, f, nil); !diag.IsCode(err, diag.RunArity) {
		t.Fatalf("arity = %v", err)
	}
	if _, err := p.CallLambda(ctx, Located{Value: value.NewNumber(1)}, nil); !diag.IsCode(err, diag.PrjNotLambda) {
		t.Fatalf("not a lambda = %v", err)
	}
}

func TestCallLambdaSeesEdits(t *testing.T) {
	ctx := context.Background()
	p := New(Options{})
	p.SetSource("main", "k = 10\nf(x) = x + k")
	mustRun(t, p, "main")
	bindings, _ := p.GetBindings("main")
	f, _ := bindings.Child(valuepath.KeyEdge("f"))
	exports, _ := p.GetExports("main")
	exported, _ := exports.Value.(value.Dict).Get("f")

	p.SetSource("main", "k = 100\nf(x) = x + k")
	got, err := p.CallLambda(ctx, f, []value.Value{value.NewNumber(5)})
	if err != nil || got.String() != "105" {
		t.Fatalf("f(5) after edit = %v, %v", got, err)
	}
	// Export tags locate a lambda passed without its location.
	got, err = p.CallLambda(ctx, Located{Value: exported}, []value.Value{value.NewNumber(1)})
	if err != nil || got.String() != "101" {
		t.Fatalf("exported f(1) = %v, %v", got, err)
	}

	// A lambda with no path is called as it is.
	p.SetSource("anon", "[{|x| x * 2}]")
	mustRun(t, p, "anon")
	res, _ := p.GetResult("anon")
	first, _ := res.Child(valuepath.IndexEdge(0))
	got, err = p.CallLambda(ctx, first, []value.Value{value.NewNumber(4)})
	if err != nil || got.String() != "8" {
		t.Fatalf("anonymous call = %v, %v", got, err)
	}
}

func TestRunOrder(t *testing.T) {
	p := New(Options{Linker: linker.NewMapLinker(nil)})
	p.SetSource("p1", "x = 1")
	p.SetSource("p2", "y = x")
	p.SetSource("lib", "z = 1")
	p.SetSource("main", "import \"lib\" as lib\ny + lib.z")
	p.SetSource("c1", "import \"c2\" as c\n1")
	p.SetSource("c2", "import \"c1\" as c\n2")
	setContinues(t, p, "p2", "p1")
	setContinues(t, p, "main", "p2")

	order, err := p.GetRunOrder()
	if err != nil {
		t.Fatalf("order: %v", err)
	}
	if got := strings.Join(order.Flat(), ","); got != "lib,p1,p2,main,c1,c2" {
		t.Fatalf("order = %s", got)
	}
	if len(order.Batches) != 3 || strings.Join(order.Cyclic, ",") != "c1,c2" {
		t.Fatalf("batches = %v cyclic = %v", order.Batches, order.Cyclic)
	}

	sub, err := p.GetRunOrderFor("p2")
	if err != nil || strings.Join(sub.Flat(), ",") != "p1,p2" {
		t.Fatalf("order for p2 = %v, %v", sub.Flat(), err)
	}

	err = p.RunAll(context.Background())
	if !diag.IsKind(err, diag.KindCyclicImport) {
		t.Fatalf("run all = %v", err)
	}
	if got := resultString(t, p, "main"); got != "2" {
		t.Fatalf("main = %s", got)
	}
}

func TestCleanKeepsParse(t *testing.T) {
	p := New(Options{})
	p.SetSource("main", "[1, 2]")
	mustRun(t, p, "main")
	p.Clean("main")
	if _, err := p.GetOutput("main"); !diag.IsKind(err, diag.KindNeedsRun) {
		t.Fatalf("after clean: %v", err)
	}
	if _, err := p.FindValuePathByOffset("main", 1); err != nil {
		t.Fatalf("parse dropped: %v", err)
	}
	mustRun(t, p, "main")
	p.CleanAll()
	if _, err := p.GetOutput("main"); err == nil {
		t.Fatalf("clean all kept the output")
	}
}

type memCache struct {
	mu     sync.Mutex
	m      map[Digest]Snapshot
	stores int
}

func (c *memCache) Load(key Digest) (Snapshot, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.m[key]
	return s, ok, nil
}

func (c *memCache) Store(key Digest, snap Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.m == nil {
		c.m = make(map[Digest]Snapshot)
	}
	c.m[key] = snap
	c.stores++
	return nil
}

func TestOutputCacheReuse(t *testing.T) {
	cache := &memCache{}
	build := func(counter *runCounter) *Project {
		p := New(Options{Cache: cache, Sink: counter})
		p.SetSource("a", "x = 2")
		p.SetSource("main", "f(v) = v * x\nf(21)")
		setContinues(t, p, "main", "a")
		return p
	}

	first := &runCounter{}
	p1 := build(first)
	mustRun(t, p1, "main")
	// main binds a lambda, so only "a" is stored.
	if cache.stores != 1 {
		t.Fatalf("stores = %d, want 1", cache.stores)
	}

	second := &runCounter{}
	p2 := build(second)
	mustRun(t, p2, "main")
	if second.count("a") != 0 || second.count("main") != 1 {
		t.Fatalf("a runs = %d, main runs = %d", second.count("a"), second.count("main"))
	}
	out, _ := p2.GetOutput("a")
	if !out.FromCache {
		t.Fatalf("a was not served from cache")
	}
	if got := resultString(t, p2, "main"); got != "42" {
		t.Fatalf("main = %s", got)
	}

	p2.SetEnv(value.Env{SampleCount: 5, Seed: 2, XYPointLength: 10})
	p2.CleanAll()
	mustRun(t, p2, "main")
	if second.count("a") != 1 {
		t.Fatalf("env change did not change the key")
	}
}

func TestTraceRecordsFailures(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelError)
	p := New(Options{Tracer: ring})
	p.SetSource("lib", "a = (1 + )")
	p.SetSource("main", "b = 2")
	setContinues(t, p, "main", "lib")
	if err := p.Run(context.Background(), "main"); err == nil {
		t.Fatalf("expected parse failure")
	}

	var names []string
	for _, ev := range ring.Source("lib") {
		if ev.Kind != trace.KindFailure {
			t.Fatalf("error level kept a %s event", ev.Kind)
		}
		names = append(names, ev.Name)
	}
	if strings.Join(names, ",") != "parse,source" {
		t.Fatalf("lib failures = %v, want parse then source", names)
	}
	if len(ring.Source("main")) == 0 {
		t.Fatalf("dependent failure not traced")
	}
}

func TestTraceInvalidation(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelPhase)
	p := New(Options{Tracer: ring})
	p.SetSource("a", "x = 1")
	p.SetSource("b", "x + 1")
	setContinues(t, p, "b", "a")
	mustRun(t, p, "b")

	p.SetSource("a", "x = 2")
	var found bool
	for _, ev := range ring.Source("a") {
		if ev.Name == "invalidate" && ev.Detail == "1 dependents" {
			found = true
		}
	}
	if !found {
		t.Fatalf("invalidation not traced: %+v", ring.Source("a"))
	}
}
