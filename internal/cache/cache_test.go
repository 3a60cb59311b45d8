package cache_test

import (
	"os"
	"path/filepath"
	"testing"

	"squiggle/internal/cache"
	"squiggle/internal/project"
	"squiggle/internal/value"
)

func snapshot() project.Snapshot {
	return project.Snapshot{
		Result: value.NewArray([]value.Value{value.NewNumber(1), value.NewString("two")}),
		Bindings: value.NewDict(
			value.Entry{Key: "x", Value: value.NewNumber(3)},
			value.Entry{Key: "ok", Value: value.NewBool(true)},
		),
		HasEndExpression: true,
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	c, err := cache.OpenDir(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	key := project.HashText("x = 3")
	if _, ok, err := c.Load(key); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	want := snapshot()
	if err := c.Store(key, want); err != nil {
		t.Fatalf("store: %v", err)
	}
	got, ok, err := c.Load(key)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if !value.Equal(got.Result, want.Result) || !value.Equal(got.Bindings, want.Bindings) || !got.HasEndExpression {
		t.Fatalf("got %+v", got)
	}
}

func TestDiskCacheRejectsLambdas(t *testing.T) {
	c, err := cache.OpenDir(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	snap := snapshot()
	snap.Result = value.NewLambda(&value.Builtin{FnName: "f"})
	if err := c.Store(project.HashText("f"), snap); err == nil {
		t.Fatalf("expected an error for a lambda result")
	}
}

func TestDiskCacheDropAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "squiggle")
	c, err := cache.OpenDir(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	key := project.HashText("a")
	if err := c.Store(key, snapshot()); err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if _, ok, _ := c.Load(key); ok {
		t.Fatalf("entry survived DropAll")
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("cache dir missing after DropAll: %v", err)
	}
}

func TestOpenDiskCacheUsesXDG(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", base)
	c, err := cache.OpenDiskCache("squiggle")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if c.Dir() != filepath.Join(base, "squiggle") {
		t.Fatalf("dir = %s", c.Dir())
	}
}

func TestMemoryFallsThrough(t *testing.T) {
	disk, err := cache.OpenDir(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	key := project.HashText("k")
	if err := disk.Store(key, snapshot()); err != nil {
		t.Fatalf("store: %v", err)
	}

	mem := cache.NewMemory(4, disk)
	if _, ok, err := mem.Load(key); !ok || err != nil {
		t.Fatalf("expected hit from disk, ok=%v err=%v", ok, err)
	}
	if mem.Len() != 1 {
		t.Fatalf("len = %d", mem.Len())
	}

	other := project.HashText("other")
	if err := mem.Store(other, snapshot()); err != nil {
		t.Fatalf("store: %v", err)
	}
	if _, ok, _ := disk.Load(other); !ok {
		t.Fatalf("store did not write through")
	}
}
