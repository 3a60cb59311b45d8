package stdlib

import (
	"math"
	"slices"

	"squiggle/internal/ast"
	"squiggle/internal/diag"
	"squiggle/internal/value"
)

func arith(name string, op func(a, b float64) float64) impl {
	return func(_ value.Caller, args []value.Value) (value.Value, error) {
		a, b, err := numbers2(name, args)
		if err != nil {
			return nil, err
		}
		return num(op(a, b)), nil
	}
}

// compare orders two numbers or two strings.
func compare(name string, pred func(c int) bool) impl {
	return func(_ value.Caller, args []value.Value) (value.Value, error) {
		switch a := args[0].(type) {
		case value.Number:
			b, err := number(name, args[1])
			if err != nil {
				return nil, err
			}
			switch {
			case a.V < b:
				return boolVal(pred(-1)), nil
			case a.V > b:
				return boolVal(pred(1)), nil
			case a.V == b:
				return boolVal(pred(0)), nil
			}
			return boolVal(false), nil
		case value.String:
			b, err := str(name, args[1])
			if err != nil {
				return nil, err
			}
			switch {
			case a.V < b:
				return boolVal(pred(-1)), nil
			case a.V > b:
				return boolVal(pred(1)), nil
			}
			return boolVal(pred(0)), nil
		}
		return nil, typeError(name, value.KindNumber, args[0])
	}
}

func logic(name string, op func(a, b bool) bool) impl {
	return func(_ value.Caller, args []value.Value) (value.Value, error) {
		a, err := boolean(name, args[0])
		if err != nil {
			return nil, err
		}
		b, err := boolean(name, args[1])
		if err != nil {
			return nil, err
		}
		return boolVal(op(a, b)), nil
	}
}

func registerOperators(r *registry) {
	ab := []string{"a", "b"}

	r.fn("add", ab, func(_ value.Caller, args []value.Value) (value.Value, error) {
		if s, ok := args[0].(value.String); ok {
			rhs, err := str("add", args[1])
			if err != nil {
				return nil, err
			}
			return strVal(s.V + rhs), nil
		}
		a, b, err := numbers2("add", args)
		if err != nil {
			return nil, err
		}
		return num(a + b), nil
	})
	r.fn("subtract", ab, arith("subtract", func(a, b float64) float64 { return a - b }))
	r.fn("multiply", ab, arith("multiply", func(a, b float64) float64 { return a * b }))
	r.fn("divide", ab, arith("divide", func(a, b float64) float64 { return a / b }))
	r.fn("pow", ab, arith("pow", math.Pow))

	r.fn("concat", ab, func(_ value.Caller, args []value.Value) (value.Value, error) {
		switch a := args[0].(type) {
		case value.String:
			b, err := str("concat", args[1])
			if err != nil {
				return nil, err
			}
			return strVal(a.V + b), nil
		case value.Array:
			b, err := array("concat", args[1])
			if err != nil {
				return nil, err
			}
			return value.NewArray(slices.Concat(a.Items, b)), nil
		}
		return nil, typeError("concat", value.KindArray, args[0])
	})

	r.fn("equal", ab, func(_ value.Caller, args []value.Value) (value.Value, error) {
		return boolVal(value.Equal(args[0], args[1])), nil
	})
	r.fn("unequal", ab, func(_ value.Caller, args []value.Value) (value.Value, error) {
		return boolVal(!value.Equal(args[0], args[1])), nil
	})
	r.fn("smaller", ab, compare("smaller", func(c int) bool { return c < 0 }))
	r.fn("smallerEq", ab, compare("smallerEq", func(c int) bool { return c <= 0 }))
	r.fn("larger", ab, compare("larger", func(c int) bool { return c > 0 }))
	r.fn("largerEq", ab, compare("largerEq", func(c int) bool { return c >= 0 }))
	r.fn("and", ab, logic("and", func(a, b bool) bool { return a && b }))
	r.fn("or", ab, logic("or", func(a, b bool) bool { return a || b }))

	r.fn("unaryMinus", []string{"x"}, func(_ value.Caller, args []value.Value) (value.Value, error) {
		x, err := number("unaryMinus", args[0])
		if err != nil {
			return nil, err
		}
		return num(-x), nil
	})
	r.fn("not", []string{"x"}, func(_ value.Caller, args []value.Value) (value.Value, error) {
		x, err := boolean("not", args[0])
		if err != nil {
			return nil, err
		}
		return boolVal(!x), nil
	})

	r.fn(ast.IndexLookupFunction, []string{"container", "key"}, indexLookup)
}

func indexLookup(_ value.Caller, args []value.Value) (value.Value, error) {
	switch c := args[0].(type) {
	case value.Array:
		i, err := integer("index", args[1])
		if err != nil {
			return nil, err
		}
		if i < 0 || i >= len(c.Items) {
			return nil, diag.Errorf(diag.RunIndexRange, "", "index %d is out of bounds for a list of length %d", i, len(c.Items))
		}
		return c.Items[i], nil
	case value.Dict:
		k, err := str("key", args[1])
		if err != nil {
			return nil, err
		}
		v, ok := c.Get(k)
		if !ok {
			return nil, diag.Errorf(diag.RunKeyNotFound, "", "dict has no key %q", k).WithName(k)
		}
		return v, nil
	}
	return nil, diag.Errorf(diag.RunTypeMismatch, "", "cannot index %s", args[0].Kind())
}
