package trace

import (
	"fmt"
	"sync"
	"time"
)

// Heartbeat emits a liveness event on every tick, carrying the number of
// open spans, so a stalled evaluation still shows up in the trace.
type Heartbeat struct {
	stop chan struct{}
	done sync.WaitGroup
	once sync.Once
}

// StartHeartbeat ticks every interval until Stop. It returns nil when
// tracing is off or interval is not positive; Stop on nil is a no-op.
func StartHeartbeat(t Tracer, interval time.Duration) *Heartbeat {
	if t == nil || !t.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{stop: make(chan struct{})}
	h.done.Add(1)
	go func() {
		defer h.done.Done()
		tick := time.NewTicker(interval)
		defer tick.Stop()
		for n := 1; ; n++ {
			select {
			case <-h.stop:
				return
			case now := <-tick.C:
				t.Emit(&Event{
					Time:   now,
					Kind:   KindHeartbeat,
					Scope:  ScopeDriver,
					Name:   "heartbeat",
					Detail: fmt.Sprintf("#%d open=%d", n, OpenSpans()),
				})
			}
		}
	}()
	return h
}

func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() {
		close(h.stop)
		h.done.Wait()
	})
}
