package store

import (
	"errors"
	"reflect"
	"testing"
)

func TestMerge_Struct(t *testing.T) {
	base := counter{Count: 1, Label: "keep"}

	got, err := Merge(base, map[string]any{"count": 2})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if got.Count != 2 {
		t.Errorf("Count = %v, want 2", got.Count)
	}
	if got.Label != "keep" {
		t.Errorf("Label = %q, want %q (unmentioned fields must be kept)", got.Label, "keep")
	}
	if base.Count != 1 {
		t.Error("Merge() must not modify base")
	}
}

func TestMerge_EmptyPatchIsNoop(t *testing.T) {
	base := counter{Count: 1}

	for _, patch := range []map[string]any{nil, {}} {
		got, err := Merge(base, patch)
		if err != nil {
			t.Fatalf("Merge(%v) error = %v", patch, err)
		}
		if got != base {
			t.Errorf("Merge(%v) = %+v, want %+v", patch, got, base)
		}
	}
}

func TestMerge_Map(t *testing.T) {
	base := map[string]any{"count": 0, "name": "x"}

	got, err := Merge(base, map[string]any{"count": 1, "extra": true})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	if got["count"] != 1 {
		t.Errorf("count = %v, want 1", got["count"])
	}
	if got["name"] != "x" {
		t.Errorf("name = %v, want x", got["name"])
	}
	if got["extra"] != true {
		t.Errorf("extra = %v, want true", got["extra"])
	}
	if base["count"] != 0 {
		t.Error("Merge() must not modify base map")
	}
}

func TestMerge_MapKeepsUntouchedValueTypes(t *testing.T) {
	base := map[string]any{"n": 1, "s": "x", "list": []int{1, 2}}

	got, err := Merge(base, map[string]any{"s": "y"})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	if !reflect.DeepEqual(got["n"], 1) {
		t.Errorf("n = %#v, want int 1", got["n"])
	}
	if !reflect.DeepEqual(got["list"], []int{1, 2}) {
		t.Errorf("list = %#v, want []int{1, 2}", got["list"])
	}
	if got["s"] != "y" {
		t.Errorf("s = %v, want y", got["s"])
	}
}

func TestMerge_TypedMap(t *testing.T) {
	base := map[string]int{"a": 1, "b": 2}

	got, err := Merge(base, map[string]any{"b": float64(3)})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if got["a"] != 1 || got["b"] != 3 {
		t.Errorf("Merge() = %v, want map[a:1 b:3]", got)
	}
	if base["b"] != 2 {
		t.Error("Merge() must not modify base map")
	}
}

func TestMerge_KeepsUnexportedAndIgnoredFields(t *testing.T) {
	type state struct {
		Count  int    `json:"count"`
		Secret string `json:"-"`
		hidden int
	}
	base := state{Count: 1, Secret: "s", hidden: 7}

	got, err := Merge(base, map[string]any{"count": 2})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	want := state{Count: 2, Secret: "s", hidden: 7}
	if got != want {
		t.Errorf("Merge() = %+v, want %+v", got, want)
	}
}

func TestMerge_IgnoredFieldNotPatchable(t *testing.T) {
	type state struct {
		Secret string `json:"-"`
	}

	got, err := Merge(state{Secret: "s"}, map[string]any{"-": "x", "Secret": "x"})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if got.Secret != "s" {
		t.Errorf("Secret = %q, want s", got.Secret)
	}
}

func TestMerge_FieldNames(t *testing.T) {
	type Meta struct {
		Owner string `json:"owner"`
	}
	type state struct {
		Meta
		Title string
		Count int `json:"count,omitempty"`
	}

	got, err := Merge(state{}, map[string]any{
		"owner": "alice",
		"Title": "t",
		"COUNT": 4,
		"extra": true,
	})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	want := state{Meta: Meta{Owner: "alice"}, Title: "t", Count: 4}
	if got != want {
		t.Errorf("Merge() = %+v, want %+v", got, want)
	}
}

func TestMerge_PointerStateIsCopied(t *testing.T) {
	base := &counter{Count: 1, Label: "keep"}

	got, err := Merge(base, map[string]any{"count": 2})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	if got == base {
		t.Fatal("Merge() must return a new pointer")
	}
	if *got != (counter{Count: 2, Label: "keep"}) {
		t.Errorf("Merge() = %+v, want {Count:2 Label:keep}", *got)
	}
	if base.Count != 1 {
		t.Error("Merge() must not modify the pointee of base")
	}
}

func TestMerge_EmbeddedPointerIsCopied(t *testing.T) {
	type Meta struct {
		Owner string `json:"owner"`
	}
	type state struct {
		*Meta
		Count int `json:"count"`
	}
	shared := &Meta{Owner: "alice"}

	got, err := Merge(state{Meta: shared}, map[string]any{"owner": "bob"})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if got.Owner != "bob" {
		t.Errorf("Owner = %q, want bob", got.Owner)
	}
	if shared.Owner != "alice" {
		t.Error("Merge() must not modify an embedded pointee of base")
	}
}

func TestMerge_NilPatchValueZeroesField(t *testing.T) {
	got, err := Merge(counter{Count: 3, Label: "x"}, map[string]any{"label": nil})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if got != (counter{Count: 3}) {
		t.Errorf("Merge() = %+v, want {Count:3}", got)
	}
}

func TestMerge_NilMap(t *testing.T) {
	var base map[string]any

	got, err := Merge(base, map[string]any{"a": "b"})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if got["a"] != "b" {
		t.Errorf("a = %v, want b", got["a"])
	}
}

func TestMerge_ShallowReplacesNested(t *testing.T) {
	type nested struct {
		Inner map[string]int `json:"inner"`
	}
	base := nested{Inner: map[string]int{"a": 1, "b": 2}}

	got, err := Merge(base, map[string]any{"inner": map[string]int{"c": 3}})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if len(got.Inner) != 1 || got.Inner["c"] != 3 {
		t.Errorf("Inner = %v, want map[c:3] (nested values are replaced, not merged)", got.Inner)
	}
}

func TestMerge_NotObject(t *testing.T) {
	patch := map[string]any{"count": 1}

	if _, err := Merge(5, patch); !errors.Is(err, ErrNotObject) {
		t.Errorf("Merge(int) error = %v, want ErrNotObject", err)
	}
	if _, err := Merge([]int{1}, patch); !errors.Is(err, ErrNotObject) {
		t.Errorf("Merge(slice) error = %v, want ErrNotObject", err)
	}
	if _, err := Merge(map[int]int{}, patch); !errors.Is(err, ErrNotObject) {
		t.Errorf("Merge(int keyed map) error = %v, want ErrNotObject", err)
	}
}

func TestMerge_UnencodablePatch(t *testing.T) {
	_, err := Merge(counter{}, map[string]any{"count": make(chan int)})
	if err == nil {
		t.Fatal("Merge() expected error for unencodable patch value")
	}
}

func TestMerge_TypeMismatch(t *testing.T) {
	_, err := Merge(counter{}, map[string]any{"count": "not a number"})
	if err == nil {
		t.Fatal("Merge() expected error when patch value does not fit the field type")
	}
}
