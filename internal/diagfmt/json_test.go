package diagfmt

import (
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"squiggle/internal/diag"
	"squiggle/internal/parser"
	"squiggle/internal/source"
)

func sampleErrors() []*diag.Error {
	first := diag.ErrorAt(diag.SemaSymbolNotFound, "main", source.Span{Start: 10, End: 13}, "foo is not defined")
	first.Name = "foo"
	second := diag.Errorf(diag.PrjCyclicImport, "a", "a -> b -> a")
	second = second.Through(diag.ChainLink{SourceID: "b", Target: "a", Span: source.Span{Start: 0, End: 10}})
	return []*diag.Error{first, second}
}

func TestBuildDiagnosticsOutput(t *testing.T) {
	fs := fileSet(t, map[string]string{"main": "x = 1\ny = foo + 2\n"})
	out := BuildDiagnosticsOutput(sampleErrors(), fs, JSONOpts{IncludePositions: true, IncludeNotes: true})
	if out.Count != 2 {
		t.Fatalf("count = %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "SEM3001" || d.Kind != "symbol-not-found" || d.Name != "foo" {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if d.Location == nil || d.Location.StartLine != 2 || d.Location.StartCol != 5 || d.Location.EndCol != 8 {
		t.Fatalf("unexpected location %+v", d.Location)
	}
	cyc := out.Diagnostics[1]
	if cyc.Kind != "cyclic-import" || cyc.Location != nil {
		t.Fatalf("unexpected cycle diagnostic %+v", cyc)
	}
	if len(cyc.Notes) != 1 || cyc.Notes[0].Message != "while importing \"a\"" || cyc.Notes[0].Location.Source != "b" {
		t.Fatalf("unexpected notes %+v", cyc.Notes)
	}
}

func TestBuildDiagnosticsOutputMax(t *testing.T) {
	out := BuildDiagnosticsOutput(sampleErrors(), nil, JSONOpts{Max: 1})
	if out.Count != 1 || out.Diagnostics[0].Code != "SEM3001" {
		t.Fatalf("unexpected output %+v", out)
	}
	if out.Diagnostics[0].Location.StartLine != 0 {
		t.Fatalf("positions filled without request")
	}
}

func TestJSONAndYAMLAgree(t *testing.T) {
	var js, ys strings.Builder
	if err := JSON(&js, sampleErrors(), nil, JSONOpts{IncludeNotes: true}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if err := YAML(&ys, sampleErrors(), nil, JSONOpts{IncludeNotes: true}); err != nil {
		t.Fatalf("YAML: %v", err)
	}
	var fromJSON, fromYAML DiagnosticsOutput
	if err := json.Unmarshal([]byte(js.String()), &fromJSON); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if err := yaml.Unmarshal([]byte(ys.String()), &fromYAML); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if fromJSON.Count != fromYAML.Count || fromJSON.Diagnostics[1].Message != fromYAML.Diagnostics[1].Message {
		t.Fatalf("json %+v != yaml %+v", fromJSON, fromYAML)
	}
	if !strings.Contains(js.String(), "\"code\": \"PRJ5003\"") {
		t.Fatalf("json missing code:\n%s", js.String())
	}
}

func TestFormatAST(t *testing.T) {
	tree, err := parser.Parse("main", "import \"lib\" as lib\nf(x) = x + 1\nf(2)")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var b strings.Builder
	if werr := FormatASTPretty(&b, tree); werr != nil {
		t.Fatalf("FormatASTPretty: %v", werr)
	}
	out := b.String()
	for _, want := range []string{"Program", "Import \"lib\" as lib", "Lambda f(x)", "InfixCall +", "Call"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	var js strings.Builder
	if werr := FormatASTJSON(&js, tree); werr != nil {
		t.Fatalf("FormatASTJSON: %v", werr)
	}
	var root ASTNodeOutput
	if derr := json.Unmarshal([]byte(js.String()), &root); derr != nil {
		t.Fatalf("decode: %v", derr)
	}
	if root.Type != "Program" || len(root.Children) != 3 {
		t.Fatalf("unexpected root %+v", root)
	}
}
