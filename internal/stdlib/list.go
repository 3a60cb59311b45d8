package stdlib

import (
	"slices"

	"squiggle/internal/diag"
	"squiggle/internal/value"
)

func registerList(r *registry) {
	r.fn("List.length", []string{"xs"}, func(_ value.Caller, args []value.Value) (value.Value, error) {
		xs, err := array("List.length", args[0])
		if err != nil {
			return nil, err
		}
		return num(float64(len(xs))), nil
	})

	r.fn("List.make", []string{"count", "fn"}, func(c value.Caller, args []value.Value) (value.Value, error) {
		n, err := integer("List.make", args[0])
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, diag.Errorf(diag.RunIndexRange, "", "List.make: count must be non-negative, got %d", n)
		}
		items := make([]value.Value, n)
		fn, isFn := args[1].(value.Lambda)
		for i := range items {
			if !isFn {
				items[i] = args[1]
				continue
			}
			callArgs := []value.Value{}
			if len(fn.Fn.Params()) == 1 {
				callArgs = append(callArgs, num(float64(i)))
			}
			v, err := c.Call(fn, callArgs)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return value.NewArray(items), nil
	})

	r.fn("List.upTo", []string{"low", "high"}, func(_ value.Caller, args []value.Value) (value.Value, error) {
		lo, err := integer("List.upTo", args[0])
		if err != nil {
			return nil, err
		}
		hi, err := integer("List.upTo", args[1])
		if err != nil {
			return nil, err
		}
		var items []value.Value
		for i := lo; i <= hi; i++ {
			items = append(items, num(float64(i)))
		}
		return value.NewArray(items), nil
	})

	r.fn("List.first", []string{"xs"}, func(_ value.Caller, args []value.Value) (value.Value, error) {
		xs, err := array("List.first", args[0])
		if err != nil {
			return nil, err
		}
		if len(xs) == 0 {
			return nil, diag.Errorf(diag.RunIndexRange, "", "List.first: list is empty")
		}
		return xs[0], nil
	})

	r.fn("List.last", []string{"xs"}, func(_ value.Caller, args []value.Value) (value.Value, error) {
		xs, err := array("List.last", args[0])
		if err != nil {
			return nil, err
		}
		if len(xs) == 0 {
			return nil, diag.Errorf(diag.RunIndexRange, "", "List.last: list is empty")
		}
		return xs[len(xs)-1], nil
	})

	r.fn("List.reverse", []string{"xs"}, func(_ value.Caller, args []value.Value) (value.Value, error) {
		xs, err := array("List.reverse", args[0])
		if err != nil {
			return nil, err
		}
		out := slices.Clone(xs)
		slices.Reverse(out)
		return value.NewArray(out), nil
	})

	r.fn("List.concat", []string{"a", "b"}, func(_ value.Caller, args []value.Value) (value.Value, error) {
		a, err := array("List.concat", args[0])
		if err != nil {
			return nil, err
		}
		b, err := array("List.concat", args[1])
		if err != nil {
			return nil, err
		}
		return value.NewArray(slices.Concat(a, b)), nil
	})

	r.fn("List.map", []string{"xs", "fn"}, func(c value.Caller, args []value.Value) (value.Value, error) {
		xs, fn, err := listAndFn("List.map", args)
		if err != nil {
			return nil, err
		}
		withIndex := len(fn.Fn.Params()) == 2
		out := make([]value.Value, len(xs))
		for i, x := range xs {
			callArgs := []value.Value{x}
			if withIndex {
				callArgs = append(callArgs, num(float64(i)))
			}
			v, err := c.Call(fn, callArgs)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return value.NewArray(out), nil
	})

	r.fn("List.filter", []string{"xs", "fn"}, func(c value.Caller, args []value.Value) (value.Value, error) {
		xs, fn, err := listAndFn("List.filter", args)
		if err != nil {
			return nil, err
		}
		out := make([]value.Value, 0, len(xs))
		for _, x := range xs {
			v, err := c.Call(fn, []value.Value{x})
			if err != nil {
				return nil, err
			}
			keep, err := boolean("List.filter", v)
			if err != nil {
				return nil, err
			}
			if keep {
				out = append(out, x)
			}
		}
		return value.NewArray(out), nil
	})

	r.fn("List.reduce", []string{"xs", "init", "fn"}, func(c value.Caller, args []value.Value) (value.Value, error) {
		xs, err := array("List.reduce", args[0])
		if err != nil {
			return nil, err
		}
		fn, err := lambda("List.reduce", args[2])
		if err != nil {
			return nil, err
		}
		acc := args[1]
		for _, x := range xs {
			acc, err = c.Call(fn, []value.Value{acc, x})
			if err != nil {
				return nil, err
			}
		}
		return acc, nil
	})

	r.fn("List.sum", []string{"xs"}, func(_ value.Caller, args []value.Value) (value.Value, error) {
		xs, err := array("List.sum", args[0])
		if err != nil {
			return nil, err
		}
		total := 0.0
		for _, x := range xs {
			n, err := number("List.sum", x)
			if err != nil {
				return nil, err
			}
			total += n
		}
		return num(total), nil
	})
}

func listAndFn(name string, args []value.Value) ([]value.Value, value.Lambda, error) {
	xs, err := array(name, args[0])
	if err != nil {
		return nil, value.Lambda{}, err
	}
	fn, err := lambda(name, args[1])
	if err != nil {
		return nil, value.Lambda{}, err
	}
	return xs, fn, nil
}
