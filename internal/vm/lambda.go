package vm

import (
	"squiggle/internal/diag"
	"squiggle/internal/expr"
	"squiggle/internal/source"
	"squiggle/internal/value"
)

// UserLambda is a lambda defined in source code. Captured values are
// materialized when the lambda value is created.
type UserLambda struct {
	name     string
	params   []string
	captures []value.Value
	body     expr.Expr
	span     source.Span
	sourceID string
}

func (l *UserLambda) Name() string     { return l.name }
func (l *UserLambda) Params() []string { return l.params }

// SourceID returns the source the lambda was defined in.
func (l *UserLambda) SourceID() string { return l.sourceID }

// Span returns the definition span of the lambda.
func (l *UserLambda) Span() source.Span { return l.span }

func (l *UserLambda) displayName() string {
	if l.name == "" {
		return "<anonymous>"
	}
	return l.name
}

// Call runs the body with the arguments pushed on the caller's stack.
// Non-interpreter callers get a fresh interpreter.
func (l *UserLambda) Call(c value.Caller, args []value.Value) (value.Value, error) {
	in, ok := c.(*Interpreter)
	if !ok {
		in = New(c.Context(), l.sourceID, c.Env())
	}
	if len(args) != len(l.params) {
		return nil, diag.Errorf(diag.RunArity, "", "%s expects %d arguments, got %d", l.displayName(), len(l.params), len(args)).
			WithName(l.displayName())
	}
	if len(in.frames) >= MaxFrames {
		return nil, diag.Errorf(diag.RunStackOverflow, "", "maximum call depth of %d exceeded", MaxFrames)
	}

	size := len(in.stack)
	savedCaptures := in.captures
	savedSource := in.sourceID
	in.frames = append(in.frames, diag.Frame{Name: l.displayName(), SourceID: l.sourceID, Span: l.span})
	in.captures = l.captures
	in.sourceID = l.sourceID
	in.stack = append(in.stack, args...)

	v, err := in.eval(l.body)

	in.shrink(size)
	in.captures = savedCaptures
	in.sourceID = savedSource
	in.frames = in.frames[:len(in.frames)-1]
	return v, err
}
