package stdlib

import (
	"math"

	"fortio.org/safecast"

	"squiggle/internal/diag"
	"squiggle/internal/value"
)

func checkArity(name string, n int, body impl) impl {
	return func(c value.Caller, args []value.Value) (value.Value, error) {
		if len(args) != n {
			return nil, diag.Errorf(diag.RunArity, "", "%s expects %d arguments, got %d", name, n, len(args)).WithName(name)
		}
		return body(c, args)
	}
}

func typeError(fn string, want value.Kind, got value.Value) error {
	return diag.Errorf(diag.RunTypeMismatch, "", "%s: expected %s, got %s", fn, want, got.Kind()).WithName(fn)
}

func number(fn string, v value.Value) (float64, error) {
	n, ok := v.(value.Number)
	if !ok {
		return 0, typeError(fn, value.KindNumber, v)
	}
	return n.V, nil
}

func numbers2(fn string, args []value.Value) (float64, float64, error) {
	a, err := number(fn, args[0])
	if err != nil {
		return 0, 0, err
	}
	b, err := number(fn, args[1])
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func str(fn string, v value.Value) (string, error) {
	s, ok := v.(value.String)
	if !ok {
		return "", typeError(fn, value.KindString, v)
	}
	return s.V, nil
}

func boolean(fn string, v value.Value) (bool, error) {
	b, ok := v.(value.Bool)
	if !ok {
		return false, typeError(fn, value.KindBool, v)
	}
	return b.V, nil
}

func array(fn string, v value.Value) ([]value.Value, error) {
	a, ok := v.(value.Array)
	if !ok {
		return nil, typeError(fn, value.KindArray, v)
	}
	return a.Items, nil
}

func dict(fn string, v value.Value) (value.Dict, error) {
	d, ok := v.(value.Dict)
	if !ok {
		return value.Dict{}, typeError(fn, value.KindDict, v)
	}
	return d, nil
}

func lambda(fn string, v value.Value) (value.Lambda, error) {
	l, ok := v.(value.Lambda)
	if !ok {
		return value.Lambda{}, typeError(fn, value.KindLambda, v)
	}
	return l, nil
}

// integer converts a whole, in-range number to int.
func integer(fn string, v value.Value) (int, error) {
	f, err := number(fn, v)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, diag.Errorf(diag.RunTypeMismatch, "", "%s: expected an integer, got %s", fn, value.FormatNumber(f)).WithName(fn)
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, diag.Errorf(diag.RunIndexRange, "", "%s: %s is out of range", fn, value.FormatNumber(f)).WithName(fn)
	}
	n, convErr := safecast.Conv[int](int64(f))
	if convErr != nil {
		return 0, diag.Errorf(diag.RunIndexRange, "", "%s: %s is out of range", fn, value.FormatNumber(f)).WithName(fn)
	}
	return n, nil
}

func num(f float64) value.Value { return value.NewNumber(f) }
func boolVal(b bool) value.Value { return value.NewBool(b) }
func strVal(s string) value.Value { return value.NewString(s) }
