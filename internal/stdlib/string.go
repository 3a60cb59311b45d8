package stdlib

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"squiggle/internal/value"
)

func stringFn(r *registry, name string, op func(s string) value.Value) {
	r.fn(name, []string{"s"}, func(_ value.Caller, args []value.Value) (value.Value, error) {
		s, err := str(name, args[0])
		if err != nil {
			return nil, err
		}
		return op(s), nil
	})
}

func registerString(r *registry) {
	stringFn(r, "String.length", func(s string) value.Value {
		return num(float64(utf8.RuneCountInString(s)))
	})
	stringFn(r, "String.upper", func(s string) value.Value { return strVal(strings.ToUpper(s)) })
	stringFn(r, "String.lower", func(s string) value.Value { return strVal(strings.ToLower(s)) })
	stringFn(r, "String.trim", func(s string) value.Value { return strVal(strings.TrimSpace(s)) })
	// NFC keeps equal-looking strings equal under ==.
	stringFn(r, "String.normalize", func(s string) value.Value { return strVal(norm.NFC.String(s)) })

	r.fn("String.split", []string{"s", "sep"}, func(_ value.Caller, args []value.Value) (value.Value, error) {
		s, err := str("String.split", args[0])
		if err != nil {
			return nil, err
		}
		sep, err := str("String.split", args[1])
		if err != nil {
			return nil, err
		}
		parts := strings.Split(s, sep)
		out := make([]value.Value, len(parts))
		for i, p := range parts {
			out[i] = strVal(p)
		}
		return value.NewArray(out), nil
	})

	r.fn("String.join", []string{"xs", "sep"}, func(_ value.Caller, args []value.Value) (value.Value, error) {
		xs, err := array("String.join", args[0])
		if err != nil {
			return nil, err
		}
		sep, err := str("String.join", args[1])
		if err != nil {
			return nil, err
		}
		parts := make([]string, len(xs))
		for i, x := range xs {
			parts[i], err = str("String.join", x)
			if err != nil {
				return nil, err
			}
		}
		return strVal(strings.Join(parts, sep)), nil
	})
}
