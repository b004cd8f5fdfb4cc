package assert

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		assertion Assertion
		wantErr   bool
	}{
		{name: "valid", assertion: Assertion{Path: "$[0].name", Op: "equals", Value: "x"}, wantErr: false},
		{name: "bad_path", assertion: Assertion{Path: "name", Op: "equals"}, wantErr: true},
		{name: "bad_op", assertion: Assertion{Path: "$.name", Op: "matches"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.assertion.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()

	result := []any{
		map[string]any{"name": "alice", "age": 30.0, "tags": []any{"a", "b"}},
		map[string]any{"name": "bob", "age": 40.0},
	}

	tests := []struct {
		name      string
		assertion Assertion
		wantErr   bool
	}{
		{name: "equals_string", assertion: Assertion{Path: "$[0].name", Op: "equals", Value: "alice"}},
		{name: "equals_number_coerced", assertion: Assertion{Path: "$[1].age", Op: "equals", Value: 40}},
		{name: "equals_mismatch", assertion: Assertion{Path: "$[0].name", Op: "equals", Value: "bob"}, wantErr: true},
		{name: "not_equals", assertion: Assertion{Path: "$[0].name", Op: "not_equals", Value: "bob"}},
		{name: "exists", assertion: Assertion{Path: "$[0].tags", Op: "exists"}},
		{name: "exists_missing", assertion: Assertion{Path: "$[1].tags", Op: "exists"}, wantErr: true},
		{name: "contains", assertion: Assertion{Path: "$[0].name", Op: "contains", Value: "lic"}},
		{name: "length_array", assertion: Assertion{Path: "$[0].tags", Op: "length", Value: 2}},
		{name: "length_mismatch", assertion: Assertion{Path: "$[0].tags", Op: "length", Value: 3}, wantErr: true},
		{name: "selects_nothing", assertion: Assertion{Path: "$[5].name", Op: "equals", Value: "x"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.assertion.Check(result)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Check() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != nil && !errors.Is(err, ErrFailed) {
				t.Fatalf("Check() error = %v, want ErrFailed", err)
			}
		})
	}
}
