package stdlib

import (
	"squiggle/internal/value"
)

func registerGeneric(r *registry) {
	r.fn("typeOf", []string{"x"}, func(_ value.Caller, args []value.Value) (value.Value, error) {
		return strVal(args[0].Kind().String()), nil
	})

	r.fn("toString", []string{"x"}, func(_ value.Caller, args []value.Value) (value.Value, error) {
		if s, ok := args[0].(value.String); ok {
			return s, nil
		}
		return strVal(args[0].String()), nil
	})
}
