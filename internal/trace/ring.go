package trace

import (
	"io"
	"sync"
)

// RingTracer keeps the last events in memory. With a dump writer set it
// writes them out on Close, but only when some span failed, so a clean run
// leaves no trace output.
type RingTracer struct {
	mu     sync.Mutex
	buf    []Event
	next   int
	count  int
	level  Level
	failed bool

	dump       io.Writer
	dumpFormat Format
}

func NewRingTracer(size int, level Level) *RingTracer {
	if size <= 0 {
		size = defaultRingSize
	}
	return &RingTracer{buf: make([]Event, size), level: level}
}

// DumpTo sets the writer Close dumps to.
func (t *RingTracer) DumpTo(w io.Writer, format Format) *RingTracer {
	t.mu.Lock()
	t.dump, t.dumpFormat = w, format
	t.mu.Unlock()
	return t
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.level.Accepts(ev) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf[t.next] = *ev
	t.buf[t.next].Seq = NextSeq()
	t.next = (t.next + 1) % len(t.buf)
	if t.count < len(t.buf) {
		t.count++
	}
	if ev.Kind == KindFailure {
		t.failed = true
	}
}

// Failed reports whether a failure has been recorded.
func (t *RingTracer) Failed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.failed
}

// Snapshot returns the kept events oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, 0, t.count)
	start := (t.next - t.count + len(t.buf)) % len(t.buf)
	for i := range t.count {
		out = append(out, t.buf[(start+i)%len(t.buf)])
	}
	return out
}

// Source returns the kept events about one project source, oldest first.
func (t *RingTracer) Source(id string) []Event {
	var out []Event
	for _, ev := range t.Snapshot() {
		if ev.Source == id {
			out = append(out, ev)
		}
	}
	return out
}

// Dump writes the kept events to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	events := t.Snapshot()
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }

func (t *RingTracer) Close() error {
	t.mu.Lock()
	w, format, failed := t.dump, t.dumpFormat, t.failed
	t.mu.Unlock()
	if w == nil {
		return nil
	}
	if failed {
		if err := t.Dump(w, format); err != nil {
			return err
		}
	}
	return closeWriter(w)
}

func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
