package linker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "a/b.squiggle", want: "a/b"},
		{in: `a\b`, want: "a/b"},
		{in: "/main", want: "main"},
		{in: "a//b", wantErr: true},
		{in: "a/../b", wantErr: true},
		{in: "", wantErr: true},
		{in: "dir/", wantErr: true},
	}
	for _, tt := range tests {
		got, err := NormalizePath(tt.in, Ext)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("NormalizePath(%q) = %q, want error", tt.in, got)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("NormalizePath(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestResolveImportPath(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		imp     string
		want    string
		wantErr bool
	}{
		{name: "root relative", from: "models/main", imp: "lib/util", want: "lib/util"},
		{name: "same dir", from: "models/main", imp: "./util", want: "models/util"},
		{name: "parent", from: "a/b/c", imp: "../../d", want: "d"},
		{name: "extension dropped", from: "main", imp: "./lib.squiggle", want: "lib"},
		{name: "escape root", from: "a", imp: "../b", wantErr: true},
		{name: "empty segment", from: "a", imp: "x//y", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveImportPath(tt.from, tt.imp, Ext)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("got %q, want error", got)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("got %q, %v; want %q", got, err, tt.want)
			}
		})
	}
}

func TestFileLinkerLoadsNormalizedText(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "lib"), 0o755); err != nil {
		t.Fatal(err)
	}
	content := "\xEF\xBB\xBFx = 1\r\ny = \"é\"\r\n"
	if err := os.WriteFile(filepath.Join(root, "lib", "math.squiggle"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	l := NewFileLinker(root, "")
	id, err := l.Resolve("./math", "lib/main")
	if err != nil || id != "lib/math" {
		t.Fatalf("Resolve = %q, %v", id, err)
	}
	text, err := l.LoadSource(context.Background(), id)
	if err != nil {
		t.Fatalf("LoadSource: %v", err)
	}
	if text != "x = 1\ny = \"é\"\n" {
		t.Fatalf("text = %q", text)
	}

	fileID, err := l.IDForFile(filepath.Join(root, "lib", "math.squiggle"))
	if err != nil || fileID != "lib/math" {
		t.Fatalf("IDForFile = %q, %v", fileID, err)
	}
	if _, err := l.LoadSource(context.Background(), "missing"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file err = %v", err)
	}
}

func TestMapLinker(t *testing.T) {
	m := NewMapLinker(map[string]string{"a": "1"})
	ctx := context.Background()
	if text, err := m.LoadSource(ctx, "a"); err != nil || text != "1" {
		t.Fatalf("load a = %q, %v", text, err)
	}
	boom := errors.New("boom")
	m.Fail("a", boom)
	if _, err := m.LoadSource(ctx, "a"); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	m.Fail("a", nil)
	m.Set("b", "2")
	if text, err := m.LoadSource(ctx, "b"); err != nil || text != "2" {
		t.Fatalf("load b = %q, %v", text, err)
	}
	if _, err := m.LoadSource(ctx, "c"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing err = %v", err)
	}
	if m.Loads() != 4 {
		t.Fatalf("loads = %d, want 4", m.Loads())
	}
}
