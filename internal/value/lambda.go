package value

import (
	"context"
	"math/rand/v2"
	"strings"
)

// Env holds the runtime parameters shared by every evaluation in a project.
type Env struct {
	SampleCount   int
	Seed          uint64
	XYPointLength int
	Profile       bool
}

// DefaultEnv mirrors the defaults used by the command line.
func DefaultEnv() Env {
	return Env{
		SampleCount:   1000,
		Seed:          1,
		XYPointLength: 1000,
	}
}

// Caller is the interface builtins use to reach back into the running
// interpreter: calling lambdas passed as arguments, reading the
// environment and drawing random numbers.
type Caller interface {
	Context() context.Context
	Call(fn Value, args []Value) (Value, error)
	Env() Env
	Rand() *rand.Rand
}

// Callable is implemented by builtins and user-defined lambdas.
// Implementations must be pointer types so lambda identity is comparable.
type Callable interface {
	Name() string
	Params() []string
	Call(c Caller, args []Value) (Value, error)
}

type Lambda struct {
	Fn   Callable
	tags Tags
}

func NewLambda(fn Callable) Lambda {
	return Lambda{Fn: fn}
}

func (v Lambda) Kind() Kind { return KindLambda }
func (v Lambda) Tags() Tags { return v.tags }

func (v Lambda) WithTags(t Tags) Value {
	v.tags = t
	return v
}

func (v Lambda) String() string {
	name := v.Fn.Name()
	if name == "" {
		name = "lambda"
	}
	return name + "(" + strings.Join(v.Fn.Params(), ",") + ") => internal code"
}

// Builtin is a Callable backed by a Go function.
type Builtin struct {
	FnName string
	Args   []string
	Impl   func(c Caller, args []Value) (Value, error)
}

func (b *Builtin) Name() string     { return b.FnName }
func (b *Builtin) Params() []string { return b.Args }

func (b *Builtin) Call(c Caller, args []Value) (Value, error) {
	return b.Impl(c, args)
}
