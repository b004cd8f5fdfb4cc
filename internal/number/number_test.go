package number

import (
	"encoding/json"
	"testing"
)

func TestToFloat64(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input any
		ok    bool
		want  float64
	}{
		{name: "int", input: int(10), ok: true, want: 10},
		{name: "int64", input: int64(-3), ok: true, want: -3},
		{name: "uint64", input: uint64(7), ok: true, want: 7},
		{name: "float64", input: 12.5, ok: true, want: 12.5},
		{name: "json_number", input: json.Number("42"), ok: true, want: 42},
		{name: "invalid_json_number", input: json.Number("x"), ok: false, want: 0},
		{name: "string", input: "10", ok: false, want: 0},
		{name: "nil", input: nil, ok: false, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFloat64(tt.input)
			if ok != tt.ok {
				t.Fatalf("ToFloat64(%v) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if got != tt.want {
				t.Fatalf("ToFloat64(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		left  any
		right any
		want  bool
	}{
		{name: "int_float", left: 2, right: 2.0, want: true},
		{name: "uint64_int", left: uint64(5), right: 5, want: true},
		{name: "different", left: 1, right: 2, want: false},
		{name: "non_numeric", left: "2", right: 2, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.left, tt.right); got != tt.want {
				t.Fatalf("Equal(%v, %v) = %v, want %v", tt.left, tt.right, got, tt.want)
			}
		})
	}
}
