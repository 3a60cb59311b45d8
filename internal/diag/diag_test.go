package diag

import (
	"errors"
	"fmt"
	"testing"

	"squiggle/internal/source"
)

func TestCodeKind(t *testing.T) {
	tests := []struct {
		code Code
		want Kind
	}{
		{LexUnknownChar, KindParse},
		{SynUnexpectedToken, KindParse},
		{SynImportExpectAs, KindImportDecl},
		{SemaSymbolNotFound, KindSymbolNotFound},
		{PrjCyclicImport, KindCyclicImport},
		{PrjLoadFailed, KindLoad},
		{PrjNoLinker, KindLoad},
		{PrjNeedsRun, KindNeedsRun},
		{PrjUnknownSource, KindProject},
		{RunTypeMismatch, KindRuntime},
	}
	for _, tt := range tests {
		if got := tt.code.Kind(); got != tt.want {
			t.Fatalf("%s.Kind() = %s, want %s", tt.code.ID(), got, tt.want)
		}
	}
}

func TestErrorThroughKeepsOriginal(t *testing.T) {
	base := ErrorAt(PrjLoadFailed, "lib", source.Span{Start: 1, End: 2}, "boom")
	chained := base.Through(ChainLink{SourceID: "main", Target: "lib"})
	if len(base.Chain) != 0 {
		t.Fatalf("Through mutated receiver")
	}
	if len(chained.Chain) != 1 || chained.Chain[0].SourceID != "main" {
		t.Fatalf("unexpected chain %+v", chained.Chain)
	}
	if d := chained.Diagnostic(); len(d.Notes) != 1 {
		t.Fatalf("expected chain note, got %+v", d.Notes)
	}
}

func TestIsKindThroughWrapping(t *testing.T) {
	err := fmt.Errorf("run: %w", Errorf(PrjCyclicImport, "a", "cycle through %q", "a").WithName("a"))
	if !IsKind(err, KindCyclicImport) {
		t.Fatalf("expected cyclic import kind")
	}
	de, ok := As(err)
	if !ok || de.Name != "a" {
		t.Fatalf("As failed: %v", err)
	}
	if IsCode(errors.New("plain"), PrjCyclicImport) {
		t.Fatalf("plain error matched")
	}
}

func TestBagSortDedup(t *testing.T) {
	b := NewBag(10)
	r := BagReporter{Bag: b}
	ReportError(r, SynUnexpectedToken, source.Span{Start: 5, End: 6}, "x").Emit()
	ReportError(r, SynUnexpectedToken, source.Span{Start: 1, End: 2}, "y").Emit()
	ReportError(r, SynUnexpectedToken, source.Span{Start: 1, End: 2}, "y").Emit()
	b.Dedup()
	b.Sort()
	if b.Len() != 2 || b.Items()[0].Primary.Start != 1 {
		t.Fatalf("unexpected bag %+v", b.Items())
	}
	if !b.HasErrors() {
		t.Fatalf("expected errors")
	}
}
