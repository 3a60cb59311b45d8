package trace

import (
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
	openSpans   atomic.Int64
)

// NextSeq returns the next event sequence number.
func NextSeq() uint64 { return seqCounter.Add(1) }

// OpenSpans reports how many emitted spans have not ended yet.
func OpenSpans() int64 { return openSpans.Load() }

// Span is a traced operation. A span whose scope the tracer's level does
// not admit stays dormant: End is silent, but Fail still records the
// failure so LevelError traces only what went wrong.
type Span struct {
	tracer  Tracer
	live    bool
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	source  string
	started time.Time
	extra   map[string]string
	done    atomic.Bool
}

// Begin starts a span with no source. parent is the enclosing span id or 0.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	return ForSource(t, scope, name, "", parent)
}

// ForSource starts a span for work on the project source id.
func ForSource(t Tracer, scope Scope, name, id string, parent uint64) *Span {
	if t == nil || !t.Enabled() {
		return &Span{}
	}
	s := &Span{
		tracer:  t,
		parent:  parent,
		scope:   scope,
		name:    name,
		source:  id,
		started: time.Now(),
	}
	if !t.Level().ShouldEmit(scope) {
		return s
	}
	s.live = true
	s.id = spanCounter.Add(1)
	openSpans.Add(1)
	t.Emit(s.event(KindSpanBegin, s.started))
	return s
}

func (s *Span) event(kind Kind, at time.Time) *Event {
	return &Event{
		Time:     at,
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Source:   s.source,
		Name:     s.name,
	}
}

// finish marks the span done once. It reports false for inert spans and
// for spans that already ended.
func (s *Span) finish() bool {
	if s == nil || s.tracer == nil || !s.done.CompareAndSwap(false, true) {
		return false
	}
	if s.live {
		openSpans.Add(-1)
	}
	return true
}

// End closes the span with an optional detail and returns its duration.
func (s *Span) End(detail string) time.Duration {
	if !s.finish() {
		return 0
	}
	now := time.Now()
	elapsed := now.Sub(s.started)
	if s.live {
		ev := s.event(KindSpanEnd, now)
		ev.Detail = detail
		ev.Elapsed = elapsed
		ev.Extra = s.extra
		s.tracer.Emit(ev)
	}
	return elapsed
}

// Fail closes the span with err. A nil err ends it normally.
func (s *Span) Fail(err error) time.Duration {
	if err == nil {
		return s.End("")
	}
	if !s.finish() {
		return 0
	}
	now := time.Now()
	ev := s.event(KindFailure, now)
	ev.Err = err.Error()
	ev.Elapsed = now.Sub(s.started)
	ev.Extra = s.extra
	s.tracer.Emit(ev)
	return ev.Elapsed
}

// WithExtra attaches a key to the closing event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.tracer == nil {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 1)
	}
	s.extra[key] = value
	return s
}

// ID returns the span id, or 0 for a dormant span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point records an instant event under parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	PointFor(t, scope, name, "", detail, parent)
}

// PointFor records an instant event about the source id.
func PointFor(t Tracer, scope Scope, name, id, detail string, parent uint64) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent,
		Source:   id,
		Name:     name,
		Detail:   detail,
	})
}
