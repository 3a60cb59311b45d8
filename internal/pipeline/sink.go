package pipeline

import "sync"

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// NopSink drops every event.
type NopSink struct{}

func (NopSink) OnEvent(Event) {}

// TimingSink accumulates elapsed time per stage from finished events.
type TimingSink struct {
	mu      sync.Mutex
	timings Timings
}

func (s *TimingSink) OnEvent(evt Event) {
	if evt.Status != StatusDone && evt.Status != StatusError {
		return
	}
	s.mu.Lock()
	s.timings.Add(evt.Stage, evt.Elapsed)
	s.mu.Unlock()
}

// Timings returns a snapshot of the accumulated durations.
func (s *TimingSink) Timings() Timings {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := Timings{}
	for stage, d := range s.timings.stages {
		out.Add(stage, d)
	}
	return out
}

// MultiSink fans events out to several sinks.
type MultiSink []ProgressSink

func (m MultiSink) OnEvent(evt Event) {
	for _, s := range m {
		if s != nil {
			s.OnEvent(evt)
		}
	}
}
