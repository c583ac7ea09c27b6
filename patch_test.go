package webui

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPatchFrom(t *testing.T) {
	type partial struct {
		Count int    `json:"count,omitempty"`
		Label string `json:"label,omitempty"`
	}

	tests := []struct {
		name    string
		in      any
		want    Patch
		wantErr error
	}{
		{
			name: "struct honours omitempty",
			in:   partial{Label: "x"},
			want: Patch{"label": "x"},
		},
		{
			name: "map",
			in:   map[string]int{"count": 2},
			want: Patch{"count": float64(2)},
		},
		{
			name: "nil",
			in:   nil,
			want: nil,
		},
		{
			name:    "not an object",
			in:      []int{1, 2},
			wantErr: ErrNotObject,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PatchFrom(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("PatchFrom() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("PatchFrom() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("PatchFrom() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("PatchFrom()[%q] = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestDecodeJSONPatch(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    Patch
		wantErr bool
	}{
		{name: "object", body: `{"count":3}`, want: Patch{"count": float64(3)}},
		{name: "empty body", body: "", want: nil},
		{name: "whitespace body", body: "  \n", want: nil},
		{name: "null", body: "null", want: nil},
		{name: "array", body: "[1]", wantErr: true},
		{name: "invalid json", body: "{", wantErr: true},
		{name: "too large", body: `{"a":"` + strings.Repeat("x", maxPatchBytes) + `"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			got, err := DecodeJSONPatch(req)
			if tt.wantErr {
				if err == nil {
					t.Fatal("DecodeJSONPatch() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeJSONPatch() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("DecodeJSONPatch() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("DecodeJSONPatch()[%q] = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestDecodeFormPatch(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/?ignored=1", strings.NewReader("label=a&label=b&name=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	got, err := DecodeFormPatch(req)
	if err != nil {
		t.Fatalf("DecodeFormPatch() error = %v", err)
	}
	if got["label"] != "a" {
		t.Errorf("label = %v, want first value a", got["label"])
	}
	if got["name"] != "x" {
		t.Errorf("name = %v, want x", got["name"])
	}
	if _, ok := got["ignored"]; ok {
		t.Error("query parameters must not be part of the patch")
	}
}

func TestDecodeFormPatch_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	got, err := DecodeFormPatch(req)
	if err != nil {
		t.Fatalf("DecodeFormPatch() error = %v", err)
	}
	if got != nil {
		t.Errorf("DecodeFormPatch() = %v, want nil", got)
	}
}
