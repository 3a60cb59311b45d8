package source

import "testing"

func TestToLineCol(t *testing.T) {
	f, err := NewFile("main", []byte("ab\ncd\n\nx"), 0)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}},
		{3, LineCol{2, 1}},
		{4, LineCol{2, 2}},
		{6, LineCol{3, 1}},
		{7, LineCol{4, 1}},
	}
	for _, tt := range tests {
		got, _ := f.Resolve(Span{Start: tt.off, End: tt.off})
		if got != tt.want {
			t.Fatalf("offset %d: got %+v, want %+v", tt.off, got, tt.want)
		}
	}
}

func TestGetLine(t *testing.T) {
	f, _ := NewFile("main", []byte("first\nsecond"), 0)
	if got := f.GetLine(1); got != "first" {
		t.Fatalf("line 1 = %q", got)
	}
	if got := f.GetLine(2); got != "second" {
		t.Fatalf("line 2 = %q", got)
	}
	if got := f.GetLine(3); got != "" {
		t.Fatalf("line 3 = %q", got)
	}
}

func TestNormalize(t *testing.T) {
	got, flags := Normalize([]byte("\xEF\xBB\xBFa\r\nb\rc"))
	if string(got) != "a\nb\rc" {
		t.Fatalf("normalized = %q", got)
	}
	if flags&FileHadBOM == 0 || flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags = %b", flags)
	}
}

func TestSpanCoverContains(t *testing.T) {
	s := Span{Start: 4, End: 6}.Cover(Span{Start: 2, End: 5})
	if s != (Span{Start: 2, End: 6}) {
		t.Fatalf("cover = %v", s)
	}
	if !s.Contains(6) || s.Contains(7) || s.Contains(1) {
		t.Fatalf("contains mismatch for %v", s)
	}
}
