// Package fuzztests houses Go fuzz harnesses for the front end and the
// evaluator: source -> lexer -> parser -> compiler -> interpreter. They
// guard against panics and hangs on arbitrary inputs.
package fuzztests
