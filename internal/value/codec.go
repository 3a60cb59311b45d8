package value

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrNotSerializable is returned when a value contains a lambda.
var ErrNotSerializable = errors.New("value: lambdas cannot be serialized")

// wireValue is the msgpack shape of a value tree.
type wireValue struct {
	Kind   uint8       `msgpack:"k"`
	Num    float64     `msgpack:"n,omitempty"`
	Str    string      `msgpack:"s,omitempty"`
	Bool   bool        `msgpack:"b,omitempty"`
	Items  []wireValue `msgpack:"i,omitempty"`
	Keys   []string    `msgpack:"ks,omitempty"`
	Name   string      `msgpack:"tn,omitempty"`
	Doc    string      `msgpack:"td,omitempty"`
	Export *wireExport `msgpack:"te,omitempty"`
}

type wireExport struct {
	SourceID string   `msgpack:"src"`
	Path     []string `msgpack:"path"`
}

// Serializable reports whether v can be encoded.
func Serializable(v Value) bool {
	switch x := v.(type) {
	case Lambda:
		return false
	case Array:
		for _, item := range x.Items {
			if !Serializable(item) {
				return false
			}
		}
	case Dict:
		for _, k := range x.keys {
			if !Serializable(x.m[k]) {
				return false
			}
		}
	}
	return true
}

func Marshal(v Value) ([]byte, error) {
	w, err := toWire(v)
	if err != nil {
		return nil, err
	}
	return msgpack.Marshal(&w)
}

func Unmarshal(data []byte) (Value, error) {
	var w wireValue
	if err := msgpack.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("value: decode: %w", err)
	}
	return fromWire(&w)
}

func toWire(v Value) (wireValue, error) {
	t := v.Tags()
	w := wireValue{Kind: uint8(v.Kind()), Name: t.Name, Doc: t.Doc}
	if t.Export != nil {
		w.Export = &wireExport{SourceID: t.Export.SourceID, Path: t.Export.Path}
	}
	switch x := v.(type) {
	case Void:
	case Number:
		w.Num = x.V
	case String:
		w.Str = x.V
	case Bool:
		w.Bool = x.V
	case Array:
		w.Items = make([]wireValue, len(x.Items))
		for i, item := range x.Items {
			iw, err := toWire(item)
			if err != nil {
				return wireValue{}, err
			}
			w.Items[i] = iw
		}
	case Dict:
		w.Keys = x.Keys()
		w.Items = make([]wireValue, len(x.keys))
		for i, k := range x.keys {
			iw, err := toWire(x.m[k])
			if err != nil {
				return wireValue{}, err
			}
			w.Items[i] = iw
		}
	default:
		return wireValue{}, ErrNotSerializable
	}
	return w, nil
}

func fromWire(w *wireValue) (Value, error) {
	var v Value
	switch Kind(w.Kind) {
	case KindVoid:
		v = NewVoid()
	case KindNumber:
		v = NewNumber(w.Num)
	case KindString:
		v = NewString(w.Str)
	case KindBool:
		v = NewBool(w.Bool)
	case KindArray:
		items := make([]Value, len(w.Items))
		for i := range w.Items {
			item, err := fromWire(&w.Items[i])
			if err != nil {
				return nil, err
			}
			items[i] = item
		}
		v = NewArray(items)
	case KindDict:
		if len(w.Keys) != len(w.Items) {
			return nil, fmt.Errorf("value: dict has %d keys and %d values", len(w.Keys), len(w.Items))
		}
		entries := make([]Entry, len(w.Keys))
		for i, k := range w.Keys {
			item, err := fromWire(&w.Items[i])
			if err != nil {
				return nil, err
			}
			entries[i] = Entry{Key: k, Value: item}
		}
		v = NewDict(entries...)
	default:
		return nil, fmt.Errorf("value: unexpected kind %d", w.Kind)
	}
	t := Tags{Name: w.Name, Doc: w.Doc}
	if w.Export != nil {
		t.Export = &ExportData{SourceID: w.Export.SourceID, Path: w.Export.Path}
	}
	if !t.IsEmpty() {
		v = v.WithTags(t)
	}
	return v, nil
}
