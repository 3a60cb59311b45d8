package main

import (
	"fmt"
	"io"

	"squiggle/internal/observ"
	"squiggle/internal/pipeline"
)

var timedStages = []struct {
	stage pipeline.Stage
	label string
}{
	{pipeline.StageLoad, "loaded"},
	{pipeline.StageParse, "parsed"},
	{pipeline.StageCompile, "compiled"},
	{pipeline.StageRun, "ran"},
}

// printTimings writes the per-stage totals summed over every source, then
// the command phases.
func printTimings(out io.Writer, timings pipeline.Timings, timer *observ.Timer) {
	for _, ts := range timedStages {
		if timings.Has(ts.stage) {
			fmt.Fprintf(out, "%s %.1f ms\n", ts.label, toMillis(timings.Duration(ts.stage)))
		}
	}
	if timer != nil {
		fmt.Fprint(out, timer.Summary())
	}
}
