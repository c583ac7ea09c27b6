package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrNotObject is returned by [Merge] when the state is not a map with
// string keys or a struct, and so has no fields to overlay.
var ErrNotObject = errors.New("value is not an object")

// Merge returns a copy of base with the top-level fields of patch overlaid.
//
// Struct fields are matched by their JSON names, the same way
// encoding/json matches them when decoding. Fields present in patch replace
// the same-named fields of base wholesale; nested values are not merged.
// Every other field, including unexported and `json:"-"` fields, keeps its
// value untouched. Patch keys that T has no field for are dropped. An empty
// patch returns base unchanged.
//
// A patch value assignable to the field type is stored as is. Otherwise it
// is converted through its JSON encoding, so a float64 decoded from a
// request body can fill an int field.
//
// base itself is never modified: maps and embedded struct pointers along
// the way are copied before they are written to.
func Merge[T any](base T, patch map[string]any) (T, error) {
	if len(patch) == 0 {
		return base, nil
	}

	out := base
	if err := mergeInto(reflect.ValueOf(&out).Elem(), patch); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// mergeInto overlays patch onto v, which must be settable and must not
// share mutable storage with the caller's state.
func mergeInto(v reflect.Value, patch map[string]any) error {
	switch v.Kind() {
	case reflect.Map:
		return mergeMap(v, patch)

	case reflect.Struct:
		return mergeStruct(v, patch)

	case reflect.Pointer:
		elem := reflect.New(v.Type().Elem())
		if !v.IsNil() {
			elem.Elem().Set(v.Elem())
		}
		if err := mergeInto(elem.Elem(), patch); err != nil {
			return err
		}
		v.Set(elem)
		return nil

	case reflect.Interface:
		if v.IsNil() {
			m := make(map[string]any, len(patch))
			for k, val := range patch {
				m[k] = val
			}
			if !reflect.TypeOf(m).AssignableTo(v.Type()) {
				return ErrNotObject
			}
			v.Set(reflect.ValueOf(m))
			return nil
		}
		elem := reflect.New(v.Elem().Type()).Elem()
		elem.Set(v.Elem())
		if err := mergeInto(elem, patch); err != nil {
			return err
		}
		v.Set(elem)
		return nil

	default:
		return ErrNotObject
	}
}

func mergeMap(v reflect.Value, patch map[string]any) error {
	t := v.Type()
	if t.Key().Kind() != reflect.String {
		return ErrNotObject
	}

	merged := reflect.MakeMapWithSize(t, v.Len()+len(patch))
	iter := v.MapRange()
	for iter.Next() {
		merged.SetMapIndex(iter.Key(), iter.Value())
	}

	for key, value := range patch {
		elem, err := patchValue(key, value, t.Elem())
		if err != nil {
			return err
		}
		merged.SetMapIndex(reflect.ValueOf(key).Convert(t.Key()), elem)
	}

	v.Set(merged)
	return nil
}

func mergeStruct(v reflect.Value, patch map[string]any) error {
	fields := jsonFields(v.Type())

	for key, value := range patch {
		index, ok := lookupField(fields, key)
		if !ok {
			continue
		}
		field := fieldByIndex(v, index)
		if !field.CanSet() {
			return fmt.Errorf("patch field %q cannot be set", key)
		}
		val, err := patchValue(key, value, field.Type())
		if err != nil {
			return err
		}
		field.Set(val)
	}
	return nil
}

// patchValue converts a patch value to typ. nil becomes the zero value.
func patchValue(key string, value any, typ reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(typ), nil
	}

	rv := reflect.ValueOf(value)
	if rv.Type().AssignableTo(typ) {
		return rv, nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("encode patch field %q: %w", key, err)
	}
	out := reflect.New(typ)
	if err := json.Unmarshal(raw, out.Interface()); err != nil {
		return reflect.Value{}, fmt.Errorf("decode patch field %q: %w", key, err)
	}
	return out.Elem(), nil
}

// fieldByIndex walks index from v, copying any embedded struct pointer it
// passes through so the original pointee is left alone.
func fieldByIndex(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			fresh := reflect.New(v.Type().Elem())
			if !v.IsNil() {
				fresh.Elem().Set(v.Elem())
			}
			v.Set(fresh)
			v = fresh.Elem()
		}
		v = v.Field(x)
	}
	return v
}

type jsonField struct {
	name   string
	index  []int
	tagged bool
}

// jsonFields maps the JSON names of t's fields to their index paths,
// following the encoding/json rules for embedded structs and conflicts.
func jsonFields(t reflect.Type) map[string][]int {
	var all []jsonField
	collectFields(t, nil, &all, map[reflect.Type]bool{})

	byName := make(map[string][]jsonField)
	for _, f := range all {
		byName[f.name] = append(byName[f.name], f)
	}

	fields := make(map[string][]int, len(byName))
	for name, candidates := range byName {
		if f, ok := dominantField(candidates); ok {
			fields[name] = f.index
		}
	}
	return fields
}

func collectFields(t reflect.Type, prefix []int, out *[]jsonField, visited map[reflect.Type]bool) {
	if visited[t] {
		return
	}
	visited[t] = true

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		index := append(append([]int(nil), prefix...), i)

		if sf.Anonymous {
			ft := sf.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if !sf.IsExported() && ft.Kind() != reflect.Struct {
				continue
			}
			if name == "" && ft.Kind() == reflect.Struct {
				// unexported embedded pointers cannot be allocated
				if !sf.IsExported() && sf.Type.Kind() == reflect.Pointer {
					continue
				}
				collectFields(ft, index, out, visited)
				continue
			}
		} else if !sf.IsExported() {
			continue
		}

		tagged := name != ""
		if name == "" {
			name = sf.Name
		}
		*out = append(*out, jsonField{name: name, index: index, tagged: tagged})
	}
}

// dominantField picks the shallowest field, preferring a tagged one on a
// tie. Unresolvable conflicts hide the name entirely.
func dominantField(candidates []jsonField) (jsonField, bool) {
	depth := len(candidates[0].index)
	for _, f := range candidates[1:] {
		if len(f.index) < depth {
			depth = len(f.index)
		}
	}

	var shallow, tagged []jsonField
	for _, f := range candidates {
		if len(f.index) != depth {
			continue
		}
		shallow = append(shallow, f)
		if f.tagged {
			tagged = append(tagged, f)
		}
	}

	if len(shallow) == 1 {
		return shallow[0], true
	}
	if len(tagged) == 1 {
		return tagged[0], true
	}
	return jsonField{}, false
}

// lookupField finds a field by exact name, falling back to a
// case-insensitive match as encoding/json does.
func lookupField(fields map[string][]int, key string) ([]int, bool) {
	if index, ok := fields[key]; ok {
		return index, true
	}
	for name, index := range fields {
		if strings.EqualFold(name, key) {
			return index, true
		}
	}
	return nil, false
}
