// Package trace records what a squiggle run does, span by span.
//
// Spans follow a run through four scopes: the CLI command, project
// operations such as run and invalidation, work on a single source (load,
// parse, compile, evaluate) and, at debug level, statements. Spans opened
// with ForSource carry the source id, so a trace of a multi-file project
// can be read per file.
//
//	squiggle run --trace=- --trace-level=detail model.squiggle
//
// Failed spans are recorded at every level but off. With --trace-level=error
// and --trace-mode=ring nothing is written unless a source failed, and then
// the last events leading up to the failure are.
//
//	t := trace.FromContext(ctx)
//	span := trace.ForSource(t, trace.ScopeSource, "parse", id, trace.CurrentSpan(ctx))
//	ctx = trace.WithSpan(ctx, span)
//	...
//	span.Fail(err)
package trace
