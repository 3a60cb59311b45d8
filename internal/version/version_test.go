package version

import (
	"runtime"
	"testing"

	"github.com/fatih/color"
)

func TestColoredPlain(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	origVersion := Version
	defer func() { Version = origVersion }()

	tests := []struct {
		version string
		want    string
	}{
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.2.3", "1.2.3"},
		{"1.2.3-rc.1", "1.2.3-rc.1"},
		{"nightly", "nightly"},
	}
	for _, tt := range tests {
		Version = tt.version
		if got := Colored(); got != tt.want {
			t.Fatalf("Colored() with %q = %q, want %q", tt.version, got, tt.want)
		}
	}
}

func TestCurrent(t *testing.T) {
	origCommit := GitCommit
	defer func() { GitCommit = origCommit }()
	GitCommit = "abc123"

	info := Current()
	if info.GitCommit != "abc123" || info.Version != Version {
		t.Fatalf("info = %+v", info)
	}
	if info.GoVersion != runtime.Version() || info.Platform == "" {
		t.Fatalf("runtime fields = %+v", info)
	}
}
