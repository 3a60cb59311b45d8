package trace

import (
	"fmt"
	"strings"
)

// Level controls how much of a run is traced.
type Level uint8

const (
	LevelOff Level = iota
	// LevelError records nothing but failed spans.
	LevelError
	LevelPhase
	LevelDetail
	LevelDebug
)

// levelBounds maps each level to the finest scope it admits. LevelOff and
// LevelError admit no scope.
var levelBounds = [...]struct {
	name  string
	bound Scope
}{
	LevelOff:    {"off", 0},
	LevelError:  {"error", 0},
	LevelPhase:  {"phase", ScopeProject},
	LevelDetail: {"detail", ScopeSource},
	LevelDebug:  {"debug", ScopeNode},
}

func (l Level) String() string {
	if int(l) < len(levelBounds) {
		return levelBounds[l].name
	}
	return "unknown"
}

// ParseLevel reads a level name. "none" is accepted for off.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "none" {
		return LevelOff, nil
	}
	for l, b := range levelBounds {
		if b.name == name {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|phase|detail|debug)", s)
}

// ShouldEmit reports whether spans and points of scope pass this level.
func (l Level) ShouldEmit(scope Scope) bool {
	if int(l) >= len(levelBounds) {
		return false
	}
	return scope != 0 && scope <= levelBounds[l].bound
}

// Accepts reports whether a tracer at this level records ev. Heartbeats
// and failures are recorded whenever tracing is on.
func (l Level) Accepts(ev *Event) bool {
	if l == LevelOff {
		return false
	}
	if ev.Kind == KindHeartbeat || ev.Kind == KindFailure {
		return true
	}
	return l.ShouldEmit(ev.Scope)
}
