package value

import (
	"slices"
	"strings"
)

// Dict is an immutable insertion-ordered mapping from string keys to values.
// Re-setting an existing key keeps its original position.
type Dict struct {
	keys []string
	m    map[string]Value
	tags Tags
}

type Entry struct {
	Key   string
	Value Value
}

func EmptyDict() Dict {
	return Dict{}
}

func NewDict(entries ...Entry) Dict {
	d := Dict{
		keys: make([]string, 0, len(entries)),
		m:    make(map[string]Value, len(entries)),
	}
	for _, e := range entries {
		if _, ok := d.m[e.Key]; !ok {
			d.keys = append(d.keys, e.Key)
		}
		d.m[e.Key] = e.Value
	}
	return d
}

func (d Dict) Kind() Kind { return KindDict }
func (d Dict) Tags() Tags { return d.tags }

func (d Dict) WithTags(t Tags) Value {
	d.tags = t
	return d
}

func (d Dict) Len() int { return len(d.keys) }

func (d Dict) Keys() []string {
	return slices.Clone(d.keys)
}

func (d Dict) Get(key string) (Value, bool) {
	if d.m == nil {
		return nil, false
	}
	v, ok := d.m[key]
	return v, ok
}

func (d Dict) Has(key string) bool {
	_, ok := d.Get(key)
	return ok
}

func (d Dict) Entries() []Entry {
	out := make([]Entry, len(d.keys))
	for i, k := range d.keys {
		out[i] = Entry{Key: k, Value: d.m[k]}
	}
	return out
}

// Set returns a new dict with key bound to v.
func (d Dict) Set(key string, v Value) Dict {
	out := Dict{
		keys: slices.Clone(d.keys),
		m:    make(map[string]Value, len(d.keys)+1),
		tags: d.tags,
	}
	for k, val := range d.m {
		out.m[k] = val
	}
	if _, ok := out.m[key]; !ok {
		out.keys = append(out.keys, key)
	}
	out.m[key] = v
	return out
}

// Merge returns a new dict containing d's entries overridden by other's.
func (d Dict) Merge(other Dict) Dict {
	if other.Len() == 0 {
		return d
	}
	if d.Len() == 0 {
		other.tags = d.tags
		return other
	}
	out := Dict{
		keys: slices.Clone(d.keys),
		m:    make(map[string]Value, len(d.keys)+len(other.keys)),
		tags: d.tags,
	}
	for k, val := range d.m {
		out.m[k] = val
	}
	for _, k := range other.keys {
		if _, ok := out.m[k]; !ok {
			out.keys = append(out.keys, k)
		}
		out.m[k] = other.m[k]
	}
	return out
}

// Map applies fn to every value, keeping keys and order.
func (d Dict) Map(fn func(key string, v Value) Value) Dict {
	out := Dict{
		keys: slices.Clone(d.keys),
		m:    make(map[string]Value, len(d.keys)),
		tags: d.tags,
	}
	for _, k := range d.keys {
		out.m[k] = fn(k, d.m[k])
	}
	return out
}

func (d Dict) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		if isIdentifier(k) {
			sb.WriteString(k)
		} else {
			sb.WriteString(String{V: k}.String())
		}
		sb.WriteString(": ")
		sb.WriteString(d.m[k].String())
	}
	sb.WriteByte('}')
	return sb.String()
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
