package trace

import "time"

// Kind tells a span boundary from an instant event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
	// KindFailure closes a span that failed. Failures pass every level
	// except LevelOff.
	KindFailure
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
	KindFailure:   "failure",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// marker is the glyph the text format prints before the event name.
func (k Kind) marker() string {
	switch k {
	case KindSpanBegin:
		return "→"
	case KindSpanEnd:
		return "←"
	case KindHeartbeat:
		return "♡"
	case KindFailure:
		return "✗"
	default:
		return "•"
	}
}

// Scope is the granularity of an event. Coarser scopes have lower values,
// so a level admits every scope up to its bound.
type Scope uint8

const (
	// ScopeDriver is a CLI command as a whole.
	ScopeDriver Scope = iota + 1
	// ScopeProject is a project operation: run, run-all, invalidation.
	ScopeProject
	// ScopeSource is work on one source: load, parse, compile, evaluate.
	ScopeSource
	// ScopeNode is a single statement.
	ScopeNode
)

var scopeNames = [...]string{
	ScopeDriver:  "driver",
	ScopeProject: "project",
	ScopeSource:  "source",
	ScopeNode:    "node",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is one trace record. Source names the project source the work
// belongs to and stays empty for driver-wide events.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	Source   string
	Name     string
	Detail   string
	Err      string
	Elapsed  time.Duration // set on span ends and failures
	Extra    map[string]string
}
