// Package value defines runtime values of the language: numbers, strings,
// booleans, void, arrays, ordered dictionaries and lambdas.
//
// Values are immutable. Tagging (WithTags) returns a copy.
package value

import (
	"math"
	"strconv"
	"strings"
)

type Kind uint8

const (
	KindVoid Kind = iota
	KindNumber
	KindString
	KindBool
	KindArray
	KindDict
	KindLambda
)

func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "Void"
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindBool:
		return "Bool"
	case KindArray:
		return "List"
	case KindDict:
		return "Dict"
	case KindLambda:
		return "Lambda"
	}
	return "Unknown"
}

// ExportData records where an exported value was defined.
type ExportData struct {
	SourceID string
	Path     []string
}

// Tags is metadata carried by a value without affecting its identity.
type Tags struct {
	Name   string
	Doc    string
	Export *ExportData
}

func (t Tags) IsEmpty() bool {
	return t.Name == "" && t.Doc == "" && t.Export == nil
}

type Value interface {
	Kind() Kind
	String() string
	Tags() Tags
	WithTags(Tags) Value
}

type Void struct{ tags Tags }

type Number struct {
	V    float64
	tags Tags
}

type String struct {
	V    string
	tags Tags
}

type Bool struct {
	V    bool
	tags Tags
}

type Array struct {
	Items []Value
	tags  Tags
}

func NewVoid() Void { return Void{} }
func NewNumber(v float64) Number { return Number{V: v} }
func NewString(v string) String { return String{V: v} }
func NewBool(v bool) Bool { return Bool{V: v} }
func NewArray(items []Value) Array { return Array{Items: items} }
func (v Void) Kind() Kind { return KindVoid }
func (v Number) Kind() Kind { return KindNumber }
func (v String) Kind() Kind { return KindString }
func (v Bool) Kind() Kind { return KindBool }
func (v Array) Kind() Kind { return KindArray }
func (v Void) Tags() Tags { return v.tags }
func (v Number) Tags() Tags { return v.tags }
func (v String) Tags() Tags { return v.tags }
func (v Bool) Tags() Tags { return v.tags }
func (v Array) Tags() Tags { return v.tags }
func (v Void) WithTags(t Tags) Value {
	v.tags = t
	return v
}

func (v Number) WithTags(t Tags) Value {
	v.tags = t
	return v
}

func (v String) WithTags(t Tags) Value {
	v.tags = t
	return v
}

func (v Bool) WithTags(t Tags) Value {
	v.tags = t
	return v
}

func (v Array) WithTags(t Tags) Value {
	v.tags = t
	return v
}

func (v Void) String() string { return "()" }

func (v Number) String() string {
	return FormatNumber(v.V)
}

func (v String) String() string {
	return strconv.Quote(v.V)
}

func (v Bool) String() string {
	return strconv.FormatBool(v.V)
}

func (v Array) String() string {
	parts := make([]string, len(v.Items))
	for i, item := range v.Items {
		parts[i] = item.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// FormatNumber prints integers without a fractional part and other values
// with the shortest round-tripping representation.
func FormatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	case f == math.Trunc(f) && math.Abs(f) < 1e21:
		return strconv.FormatFloat(f, 'f', -1, 64)
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

// Equal compares two values structurally. Lambdas are equal only to themselves.
func Equal(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Void:
		return true
	case Number:
		return av.V == b.(Number).V
	case String:
		return av.V == b.(String).V
	case Bool:
		return av.V == b.(Bool).V
	case Array:
		bv := b.(Array)
		if len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !Equal(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	case Dict:
		bv := b.(Dict)
		if av.Len() != bv.Len() {
			return false
		}
		for _, k := range av.Keys() {
			ov, ok := bv.Get(k)
			if !ok {
				return false
			}
			v, _ := av.Get(k)
			if !Equal(v, ov) {
				return false
			}
		}
		return true
	case Lambda:
		return av.Fn == b.(Lambda).Fn
	}
	return false
}
