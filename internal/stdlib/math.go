package stdlib

import (
	"math"

	"squiggle/internal/diag"
	"squiggle/internal/value"
)

func unaryMath(r *registry, name string, op func(float64) float64) {
	r.fn(name, []string{"x"}, func(_ value.Caller, args []value.Value) (value.Value, error) {
		x, err := number(name, args[0])
		if err != nil {
			return nil, err
		}
		return num(op(x)), nil
	})
}

func registerMath(r *registry) {
	r.constant("Math.pi", num(math.Pi))
	r.constant("Math.e", num(math.E))

	unaryMath(r, "Math.sqrt", math.Sqrt)
	unaryMath(r, "Math.abs", math.Abs)
	unaryMath(r, "Math.floor", math.Floor)
	unaryMath(r, "Math.ceil", math.Ceil)
	unaryMath(r, "Math.round", func(x float64) float64 { return math.Floor(x + 0.5) })
	unaryMath(r, "Math.exp", math.Exp)
	unaryMath(r, "Math.log", math.Log)
	unaryMath(r, "Math.log10", math.Log10)

	ab := []string{"a", "b"}
	r.fn("Math.min", ab, arith("Math.min", math.Min))
	r.fn("Math.max", ab, arith("Math.max", math.Max))
	r.fn("Math.mod", ab, func(_ value.Caller, args []value.Value) (value.Value, error) {
		a, b, err := numbers2("Math.mod", args)
		if err != nil {
			return nil, err
		}
		if b == 0 {
			return nil, diag.Errorf(diag.RunDivisionZero, "", "Math.mod: division by zero")
		}
		return num(math.Mod(a, b)), nil
	})
}
