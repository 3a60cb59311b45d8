// Package vm evaluates compiled programs on a value stack.
//
// Bound locals are pushed in definition order; a StackRef offset counts
// from the top of the stack. Blocks and lambda calls shrink the stack back
// to its entry size when they finish, the program body does not, so the
// top-level bindings can be read once evaluation ends.
package vm

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime/debug"
	"time"

	"squiggle/internal/diag"
	"squiggle/internal/expr"
	"squiggle/internal/source"
	"squiggle/internal/value"
)

// MaxFrames bounds lambda recursion.
const MaxFrames = 4096

// cancelCheckEvery is the number of evaluated nodes between context checks.
const cancelCheckEvery = 1 << 10

// StatementTiming is the wall time of one top-level statement; collected
// only when the environment enables profiling.
type StatementTiming struct {
	Name     string
	Span     source.Span
	Duration time.Duration
}

// Result is the outcome of evaluating a program.
type Result struct {
	Result   value.Value
	Bindings value.Dict
	Profile  []StatementTiming
}

// Interpreter holds the state of one evaluation. It is not safe for
// concurrent use; lambdas created by it may be called later through a new
// Interpreter.
type Interpreter struct {
	ctx      context.Context
	env      value.Env
	rng      *rand.Rand
	sourceID string

	stack    []value.Value
	captures []value.Value
	frames   []diag.Frame
	steps    uint64
}

// New creates an interpreter evaluating code of sourceID.
func New(ctx context.Context, sourceID string, env value.Env) *Interpreter {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Interpreter{
		ctx:      ctx,
		env:      env,
		rng:      rand.New(rand.NewPCG(env.Seed, env.Seed^0x9e3779b97f4a7c15)), //nolint:gosec // reproducible sampling, not crypto
		sourceID: sourceID,
		stack:    make([]value.Value, 0, 64),
	}
}

// Evaluate runs prog and collects the top-level bindings.
func Evaluate(ctx context.Context, sourceID string, prog *expr.Program, env value.Env) (Result, error) {
	in := New(ctx, sourceID, env)
	return in.RunProgram(prog)
}

// RunProgram evaluates prog; builtin panics are reported as runtime errors.
func (in *Interpreter) RunProgram(prog *expr.Program) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = diag.ErrorAt(diag.RunError, in.sourceID, prog.At, "internal error: %v", r).
				WithCause(fmt.Errorf("%v\n%s", r, debug.Stack()))
		}
	}()

	for _, st := range prog.Statements {
		start := time.Now()
		if _, err := in.eval(st); err != nil {
			return Result{}, err
		}
		if in.env.Profile {
			res.Profile = append(res.Profile, StatementTiming{Name: st.Name, Span: st.At, Duration: time.Since(start)})
		}
	}
	res.Result = value.NewVoid()
	if prog.Result != nil {
		v, err := in.eval(prog.Result)
		if err != nil {
			return Result{}, err
		}
		res.Result = v
	}

	entries := make([]value.Entry, 0, len(prog.Order))
	for _, name := range prog.Order {
		entries = append(entries, value.Entry{Key: name, Value: in.stackGet(prog.Bindings[name])})
	}
	res.Bindings = value.NewDict(entries...)
	return res, nil
}

func (in *Interpreter) stackGet(offset int) value.Value {
	return in.stack[len(in.stack)-1-offset]
}

func (in *Interpreter) shrink(size int) {
	clear(in.stack[size:])
	in.stack = in.stack[:size]
}

func (in *Interpreter) eval(e expr.Expr) (value.Value, error) {
	in.steps++
	if in.steps%cancelCheckEvery == 0 {
		if err := in.ctx.Err(); err != nil {
			return nil, diag.ErrorAt(diag.RunCancelled, in.sourceID, e.Span(), "evaluation cancelled").WithCause(err)
		}
	}

	switch n := e.(type) {
	case *expr.Value:
		return n.Value, nil

	case *expr.StackRef:
		return in.stackGet(n.Offset), nil

	case *expr.CaptureRef:
		if n.Index >= len(in.captures) {
			return nil, in.errorf(diag.RunError, n.At, "invalid capture index %d", n.Index)
		}
		return in.captures[n.Index], nil

	case *expr.Assign:
		v, err := in.eval(n.Value)
		if err != nil {
			return nil, err
		}
		in.stack = append(in.stack, v)
		return value.NewVoid(), nil

	case *expr.Block:
		size := len(in.stack)
		for _, st := range n.Statements {
			if _, err := in.eval(st); err != nil {
				return nil, err
			}
		}
		v, err := in.eval(n.Result)
		in.shrink(size)
		return v, err

	case *expr.Program:
		res, err := in.RunProgram(n)
		if err != nil {
			return nil, err
		}
		return res.Result, nil

	case *expr.Array:
		items := make([]value.Value, len(n.Items))
		for i, item := range n.Items {
			v, err := in.eval(item)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return value.NewArray(items), nil

	case *expr.Dict:
		entries := make([]value.Entry, 0, len(n.Pairs))
		for _, p := range n.Pairs {
			k, err := in.eval(p.Key)
			if err != nil {
				return nil, err
			}
			key, ok := k.(value.String)
			if !ok {
				return nil, in.errorf(diag.RunTypeMismatch, p.Key.Span(), "dict keys must be strings, got %s", k.Kind())
			}
			v, err := in.eval(p.Value)
			if err != nil {
				return nil, err
			}
			entries = append(entries, value.Entry{Key: key.V, Value: v})
		}
		return value.NewDict(entries...), nil

	case *expr.Ternary:
		c, err := in.eval(n.Cond)
		if err != nil {
			return nil, err
		}
		b, ok := c.(value.Bool)
		if !ok {
			return nil, in.errorf(diag.RunTypeMismatch, n.Cond.Span(), "expected Bool condition, got %s", c.Kind())
		}
		if b.V {
			return in.eval(n.Then)
		}
		return in.eval(n.Else)

	case *expr.Lambda:
		return in.makeLambda(n)

	case *expr.Call:
		return in.evalCall(n)
	}
	return nil, in.errorf(diag.RunError, e.Span(), "unsupported node %T", e)
}

func (in *Interpreter) makeLambda(n *expr.Lambda) (value.Value, error) {
	captured := make([]value.Value, len(n.Captures))
	for i, c := range n.Captures {
		switch ref := c.(type) {
		case *expr.StackRef:
			captured[i] = in.stackGet(ref.Offset)
		case *expr.CaptureRef:
			if ref.Index >= len(in.captures) {
				return nil, in.errorf(diag.RunError, ref.At, "invalid capture index %d", ref.Index)
			}
			captured[i] = in.captures[ref.Index]
		default:
			return nil, in.errorf(diag.RunError, c.Span(), "impossible capture %T", c)
		}
	}
	return value.NewLambda(&UserLambda{
		name:     n.Name,
		params:   n.Params,
		captures: captured,
		body:     n.Body,
		span:     n.At,
		sourceID: in.sourceID,
	}), nil
}

func (in *Interpreter) evalCall(n *expr.Call) (value.Value, error) {
	fnVal, err := in.eval(n.Fn)
	if err != nil {
		return nil, err
	}
	lambda, ok := fnVal.(value.Lambda)
	if !ok {
		return nil, in.errorf(diag.RunNotCallable, n.At, "%s is not a function", fnVal)
	}
	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := in.eval(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	v, err := lambda.Fn.Call(in, args)
	if err != nil {
		return nil, in.locate(err, n.At)
	}
	return v, nil
}

// locate attaches the call site to errors raised by builtins.
func (in *Interpreter) locate(err error, span source.Span) error {
	de, ok := diag.As(err)
	if !ok {
		return in.errorf(diag.RunError, span, "%v", err).WithCause(err)
	}
	if de.HasSpan {
		return err
	}
	cp := *de
	cp.SourceID = in.sourceID
	cp.Span = span
	cp.HasSpan = true
	if len(cp.Frames) == 0 {
		cp.Frames = in.backtrace()
	}
	return &cp
}

func (in *Interpreter) errorf(code diag.Code, span source.Span, format string, args ...any) *diag.Error {
	e := diag.ErrorAt(code, in.sourceID, span, format, args...)
	e.Frames = in.backtrace()
	return e
}

func (in *Interpreter) backtrace() []diag.Frame {
	if len(in.frames) == 0 {
		return nil
	}
	out := make([]diag.Frame, len(in.frames))
	for i := range in.frames {
		out[i] = in.frames[len(in.frames)-1-i]
	}
	return out
}

// Context implements value.Caller.
func (in *Interpreter) Context() context.Context { return in.ctx }

// Env implements value.Caller.
func (in *Interpreter) Env() value.Env { return in.env }

// Rand implements value.Caller.
func (in *Interpreter) Rand() *rand.Rand { return in.rng }

// Call implements value.Caller.
func (in *Interpreter) Call(fn value.Value, args []value.Value) (value.Value, error) {
	lambda, ok := fn.(value.Lambda)
	if !ok {
		return nil, diag.Errorf(diag.RunNotCallable, "", "%s is not a function", fn)
	}
	return lambda.Fn.Call(in, args)
}

// CallValue invokes a lambda outside of any program, e.g. from the project
// after a run has finished.
func CallValue(ctx context.Context, env value.Env, fn value.Value, args []value.Value) (value.Value, error) {
	sourceID := ""
	if l, ok := fn.(value.Lambda); ok {
		if u, ok := l.Fn.(*UserLambda); ok {
			sourceID = u.sourceID
		}
	}
	in := New(ctx, sourceID, env)
	return in.Call(fn, args)
}
