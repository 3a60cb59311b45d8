// Package diag defines the error and diagnostic model shared by the parser,
// compiler, project and interpreter.
//
// Two shapes exist:
//
//   - Diagnostic is a passive record (severity, code, message, span, notes)
//     collected into a Bag through a Reporter. The parser reports every
//     syntax problem it recovers from this way.
//   - Error is the tagged error value returned across the project API. It
//     implements the error interface, carries the source id and span of the
//     failure, the offending name (identifier or source id) and, for failures
//     that surfaced through imports, the chain of import sites that led to it.
//
// Every Code belongs to exactly one Kind. Callers branch on Kind (or use
// IsKind / IsCode with errors.As semantics); renderers use Code.ID for the
// stable textual form such as "PRJ5003".
//
// Package diag performs no formatting beyond Error.Error; rich rendering
// with code frames lives in internal/diagfmt.
package diag
