package webui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jpalmerr/webui/internal/store"
)

// maxPatchBytes bounds the request body read by [DecodeJSONPatch].
const maxPatchBytes = 1 << 20

// ErrNotObject is returned when a value that must be a JSON object (the
// state, or a patch source) is not one.
var ErrNotObject = store.ErrNotObject

// Patch is the result of an update handler: top-level state fields, keyed
// by their JSON names, to overwrite.
//
// A nil Patch and an empty Patch both leave the state unchanged.
type Patch map[string]any

// PatchFrom converts a struct or map into a Patch using its JSON encoding,
// so field tags and omitempty decide which fields are included.
//
// A nil value yields a nil patch. Values that do not encode as a JSON
// object return [ErrNotObject].
func PatchFrom(v any) (Patch, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode patch: %w", err)
	}
	return decodePatch(raw)
}

// DecodeJSONPatch reads the request body as a JSON object patch.
//
// An empty body yields a nil patch. Bodies over 1 MiB, invalid JSON and
// non-object values are errors.
func DecodeJSONPatch(r *http.Request) (Patch, error) {
	if r.Body == nil {
		return nil, nil
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxPatchBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(raw) > maxPatchBytes {
		return nil, fmt.Errorf("body exceeds %d bytes", maxPatchBytes)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	return decodePatch(raw)
}

// DecodeFormPatch turns the form fields of a POST body into a patch. Each
// field maps to its first value as a string.
func DecodeFormPatch(r *http.Request) (Patch, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	if len(r.PostForm) == 0 {
		return nil, nil
	}
	patch := make(Patch, len(r.PostForm))
	for key, values := range r.PostForm {
		if len(values) > 0 {
			patch[key] = values[0]
		}
	}
	return patch, nil
}

func decodePatch(raw []byte) (Patch, error) {
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if len(raw) == 0 || raw[0] != '{' {
		return nil, ErrNotObject
	}
	var patch Patch
	if err := json.Unmarshal(raw, &patch); err != nil {
		return nil, fmt.Errorf("decode patch: %w", err)
	}
	return patch, nil
}

// requestPatchFunc is an update handler that only looks at the request.
type requestPatchFunc func(r *http.Request) (Patch, error)

// resolveUpdate checks a configured update handler against the state type.
func resolveUpdate[T any](update any) (UpdateFunc[T], error) {
	switch fn := update.(type) {
	case nil:
		return nil, nil
	case UpdateFunc[T]:
		return fn, nil
	case requestPatchFunc:
		return func(_ context.Context, req Request[T]) (Patch, error) {
			return fn(req.HTTP)
		}, nil
	default:
		var zero T
		return nil, fmt.Errorf("update function has type %T, want webui.UpdateFunc[%T]", update, zero)
	}
}

// errPanic wraps a value recovered from a panicking update handler.
var errPanic = errors.New("update handler panicked")
