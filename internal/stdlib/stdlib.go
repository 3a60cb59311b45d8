// Package stdlib provides the builtin bindings every source is compiled
// against: operators, index lookup and the List, Dict, String and Math
// namespaces.
package stdlib

import (
	"sync"

	"squiggle/internal/value"
)

type impl func(c value.Caller, args []value.Value) (value.Value, error)

type registry struct {
	entries []value.Entry
}

func (r *registry) fn(name string, params []string, body impl) {
	r.entries = append(r.entries, value.Entry{
		Key: name,
		Value: value.NewLambda(&value.Builtin{
			FnName: name,
			Args:   params,
			Impl:   checkArity(name, len(params), body),
		}),
	})
}

func (r *registry) constant(name string, v value.Value) {
	r.entries = append(r.entries, value.Entry{Key: name, Value: v})
}

var (
	once     sync.Once
	bindings value.Dict
)

// Bindings returns the standard library. The dict is built once and shared.
func Bindings() value.Dict {
	once.Do(func() {
		r := &registry{}
		registerOperators(r)
		registerList(r)
		registerDict(r)
		registerString(r)
		registerMath(r)
		registerSampling(r)
		registerGeneric(r)
		bindings = value.NewDict(r.entries...)
	})
	return bindings
}
