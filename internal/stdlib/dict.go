package stdlib

import (
	"squiggle/internal/diag"
	"squiggle/internal/value"
)

func registerDict(r *registry) {
	r.fn("Dict.keys", []string{"dict"}, func(_ value.Caller, args []value.Value) (value.Value, error) {
		d, err := dict("Dict.keys", args[0])
		if err != nil {
			return nil, err
		}
		keys := d.Keys()
		out := make([]value.Value, len(keys))
		for i, k := range keys {
			out[i] = strVal(k)
		}
		return value.NewArray(out), nil
	})

	r.fn("Dict.values", []string{"dict"}, func(_ value.Caller, args []value.Value) (value.Value, error) {
		d, err := dict("Dict.values", args[0])
		if err != nil {
			return nil, err
		}
		entries := d.Entries()
		out := make([]value.Value, len(entries))
		for i, e := range entries {
			out[i] = e.Value
		}
		return value.NewArray(out), nil
	})

	r.fn("Dict.has", []string{"dict", "key"}, func(_ value.Caller, args []value.Value) (value.Value, error) {
		d, err := dict("Dict.has", args[0])
		if err != nil {
			return nil, err
		}
		k, err := str("Dict.has", args[1])
		if err != nil {
			return nil, err
		}
		return boolVal(d.Has(k)), nil
	})

	r.fn("Dict.set", []string{"dict", "key", "value"}, func(_ value.Caller, args []value.Value) (value.Value, error) {
		d, err := dict("Dict.set", args[0])
		if err != nil {
			return nil, err
		}
		k, err := str("Dict.set", args[1])
		if err != nil {
			return nil, err
		}
		return d.Set(k, args[2]), nil
	})

	r.fn("Dict.merge", []string{"a", "b"}, func(_ value.Caller, args []value.Value) (value.Value, error) {
		a, err := dict("Dict.merge", args[0])
		if err != nil {
			return nil, err
		}
		b, err := dict("Dict.merge", args[1])
		if err != nil {
			return nil, err
		}
		return a.Merge(b), nil
	})

	r.fn("Dict.toList", []string{"dict"}, func(_ value.Caller, args []value.Value) (value.Value, error) {
		d, err := dict("Dict.toList", args[0])
		if err != nil {
			return nil, err
		}
		entries := d.Entries()
		out := make([]value.Value, len(entries))
		for i, e := range entries {
			out[i] = value.NewArray([]value.Value{strVal(e.Key), e.Value})
		}
		return value.NewArray(out), nil
	})

	r.fn("Dict.fromList", []string{"pairs"}, func(_ value.Caller, args []value.Value) (value.Value, error) {
		pairs, err := array("Dict.fromList", args[0])
		if err != nil {
			return nil, err
		}
		entries := make([]value.Entry, 0, len(pairs))
		for _, p := range pairs {
			kv, err := array("Dict.fromList", p)
			if err != nil {
				return nil, err
			}
			if len(kv) != 2 {
				return nil, diag.Errorf(diag.RunTypeMismatch, "", "Dict.fromList: expected [key, value] pairs")
			}
			k, err := str("Dict.fromList", kv[0])
			if err != nil {
				return nil, err
			}
			entries = append(entries, value.Entry{Key: k, Value: kv[1]})
		}
		return value.NewDict(entries...), nil
	})

	r.fn("Dict.map", []string{"dict", "fn"}, func(c value.Caller, args []value.Value) (value.Value, error) {
		d, err := dict("Dict.map", args[0])
		if err != nil {
			return nil, err
		}
		fn, err := lambda("Dict.map", args[1])
		if err != nil {
			return nil, err
		}
		entries := d.Entries()
		for i, e := range entries {
			v, err := c.Call(fn, []value.Value{e.Value})
			if err != nil {
				return nil, err
			}
			entries[i].Value = v
		}
		return value.NewDict(entries...), nil
	})
}
