package trace

import "errors"

// MultiTracer hands every event to each child. Children filter by their
// own level.
type MultiTracer struct {
	children []Tracer
	level    Level
}

func NewMultiTracer(level Level, children ...Tracer) *MultiTracer {
	return &MultiTracer{children: children, level: level}
}

func (t *MultiTracer) Emit(ev *Event) {
	for _, c := range t.children {
		dup := *ev
		c.Emit(&dup)
	}
}

func (t *MultiTracer) each(fn func(Tracer) error) error {
	var errs []error
	for _, c := range t.children {
		errs = append(errs, fn(c))
	}
	return errors.Join(errs...)
}

func (t *MultiTracer) Flush() error { return t.each(Tracer.Flush) }
func (t *MultiTracer) Close() error { return t.each(Tracer.Close) }

// Ring returns the first ring child, if any.
func (t *MultiTracer) Ring() *RingTracer {
	for _, c := range t.children {
		if r, ok := c.(*RingTracer); ok {
			return r
		}
	}
	return nil
}

func (t *MultiTracer) Level() Level  { return t.level }
func (t *MultiTracer) Enabled() bool { return t.level > LevelOff }

// RingOf returns the ring buffer behind t, if it keeps one.
func RingOf(t Tracer) *RingTracer {
	switch v := t.(type) {
	case *RingTracer:
		return v
	case *MultiTracer:
		return v.Ring()
	}
	return nil
}
