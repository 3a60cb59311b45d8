package stdlib

import (
	"squiggle/internal/value"
)

// Sampling builtins draw from the interpreter's generator, which is seeded
// from the project environment, so a run is reproducible.
func registerSampling(r *registry) {
	r.fn("sampleCount", nil, func(c value.Caller, _ []value.Value) (value.Value, error) {
		return num(float64(c.Env().SampleCount)), nil
	})

	r.fn("random", nil, func(c value.Caller, _ []value.Value) (value.Value, error) {
		return num(c.Rand().Float64()), nil
	})

	r.fn("uniform", []string{"low", "high"}, func(c value.Caller, args []value.Value) (value.Value, error) {
		lo, hi, err := numbers2("uniform", args)
		if err != nil {
			return nil, err
		}
		return num(lo + (hi-lo)*c.Rand().Float64()), nil
	})

	r.fn("samples", []string{"fn"}, func(c value.Caller, args []value.Value) (value.Value, error) {
		fn, err := lambda("samples", args[0])
		if err != nil {
			return nil, err
		}
		n := max(c.Env().SampleCount, 0)
		out := make([]value.Value, n)
		for i := range out {
			out[i], err = c.Call(fn, nil)
			if err != nil {
				return nil, err
			}
		}
		return value.NewArray(out), nil
	})
}
