// Package pipeline carries progress events from the project to the user
// interface.
package pipeline

import "time"

// Stage describes a phase of running one source.
type Stage string

const (
	// StageLoad is fetching the source text through the linker.
	StageLoad Stage = "load"
	// StageParse is parsing the text and its import declarations.
	StageParse Stage = "parse"
	// StageCompile is resolving names against the externals.
	StageCompile Stage = "compile"
	// StageRun is evaluating the compiled program.
	StageRun Stage = "run"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the source is waiting for its dependencies.
	StatusQueued Status = "queued"
	// StatusWorking indicates the stage is in progress.
	StatusWorking Status = "working"
	// StatusDone indicates the stage finished.
	StatusDone Status = "done"
	// StatusCached indicates a cached output was reused.
	StatusCached Status = "cached"
	// StatusError indicates the stage failed.
	StatusError Status = "error"
)

// Event reports progress for a source.
type Event struct {
	Source  string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use; the project emits from several goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings holds accumulated stage durations.
type Timings struct {
	stages map[Stage]time.Duration
}

func (t *Timings) ensure() {
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
}

// Add accumulates a duration for the given stage.
func (t *Timings) Add(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	t.ensure()
	t.stages[stage] += dur
}

// Has reports whether stage recorded any time.
func (t Timings) Has(stage Stage) bool {
	if t.stages == nil {
		return false
	}
	_, ok := t.stages[stage]
	return ok
}

// Duration returns the recorded duration for stage.
func (t Timings) Duration(stage Stage) time.Duration {
	if t.stages == nil {
		return 0
	}
	return t.stages[stage]
}

// Sum returns the sum of durations across the provided stages.
func (t Timings) Sum(stages ...Stage) time.Duration {
	if t.stages == nil {
		return 0
	}
	var total time.Duration
	for _, stage := range stages {
		total += t.stages[stage]
	}
	return total
}
