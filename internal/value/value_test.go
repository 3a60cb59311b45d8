package value

import (
	"errors"
	"math"
	"testing"
)

func TestDictOrderAndOverride(t *testing.T) {
	d := NewDict(
		Entry{Key: "a", Value: NewNumber(1)},
		Entry{Key: "b", Value: NewNumber(2)},
	)
	other := NewDict(
		Entry{Key: "c", Value: NewNumber(3)},
		Entry{Key: "a", Value: NewNumber(10)},
	)
	merged := d.Merge(other)

	keys := merged.Keys()
	want := []string{"a", "b", "c"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
	a, _ := merged.Get("a")
	if a.(Number).V != 10 {
		t.Fatalf("a = %s, want 10", a)
	}
	orig, _ := d.Get("a")
	if orig.(Number).V != 1 {
		t.Fatalf("merge mutated receiver: a = %s", orig)
	}
}

func TestDictSetIsPersistent(t *testing.T) {
	d := NewDict(Entry{Key: "x", Value: NewNumber(1)})
	d2 := d.Set("y", NewNumber(2))
	if d.Has("y") {
		t.Fatalf("Set mutated receiver")
	}
	if d2.Len() != 2 {
		t.Fatalf("len = %d, want 2", d2.Len())
	}
	var empty Dict
	if _, ok := empty.Get("x"); ok {
		t.Fatalf("zero dict returned a value")
	}
	if empty.Set("x", NewBool(true)).Len() != 1 {
		t.Fatalf("Set on zero dict failed")
	}
}

func TestStrings(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{NewNumber(3), "3"},
		{NewNumber(2.5), "2.5"},
		{NewNumber(math.Inf(1)), "Infinity"},
		{NewString("hi"), `"hi"`},
		{NewBool(false), "false"},
		{NewVoid(), "()"},
		{NewArray([]Value{NewNumber(1), NewNumber(2)}), "[1, 2]"},
		{NewDict(Entry{Key: "a", Value: NewNumber(1)}, Entry{Key: "b c", Value: NewVoid()}), `{a: 1, "b c": ()}`},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Fatalf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestEqual(t *testing.T) {
	a := NewArray([]Value{NewNumber(1), NewDict(Entry{Key: "k", Value: NewString("v")})})
	b := NewArray([]Value{NewNumber(1), NewDict(Entry{Key: "k", Value: NewString("v")})})
	if !Equal(a, b) {
		t.Fatalf("expected structural equality")
	}
	if Equal(NewNumber(1), NewString("1")) {
		t.Fatalf("different kinds compared equal")
	}
	fn := &Builtin{FnName: "f"}
	if !Equal(NewLambda(fn), NewLambda(fn)) {
		t.Fatalf("same lambda compared unequal")
	}
	if Equal(NewLambda(fn), NewLambda(&Builtin{FnName: "f"})) {
		t.Fatalf("distinct lambdas compared equal")
	}
}

func TestTagsDoNotAffectEquality(t *testing.T) {
	v := NewNumber(4).WithTags(Tags{Name: "x", Export: &ExportData{SourceID: "main", Path: []string{"x"}}})
	if !Equal(v, NewNumber(4)) {
		t.Fatalf("tags changed equality")
	}
	if v.Tags().Export.SourceID != "main" {
		t.Fatalf("tags lost: %+v", v.Tags())
	}
}

func TestCodecRoundTrip(t *testing.T) {
	v := NewDict(
		Entry{Key: "n", Value: NewNumber(1.5)},
		Entry{Key: "list", Value: NewArray([]Value{NewString("a"), NewBool(true), NewVoid()})},
	).WithTags(Tags{Name: "exports", Export: &ExportData{SourceID: "s"}})

	data, err := Marshal(v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !Equal(v, got) {
		t.Fatalf("round trip = %s, want %s", got, v)
	}
	if got.Tags().Name != "exports" || got.Tags().Export == nil || got.Tags().Export.SourceID != "s" {
		t.Fatalf("tags lost: %+v", got.Tags())
	}
	if keys := got.(Dict).Keys(); keys[0] != "n" || keys[1] != "list" {
		t.Fatalf("order lost: %v", keys)
	}
}

func TestCodecRejectsLambdas(t *testing.T) {
	v := NewArray([]Value{NewLambda(&Builtin{FnName: "f"})})
	if Serializable(v) {
		t.Fatalf("lambda reported serializable")
	}
	if _, err := Marshal(v); !errors.Is(err, ErrNotSerializable) {
		t.Fatalf("err = %v, want ErrNotSerializable", err)
	}
}
