// Package assert checks JSONPath assertions against materialized query
// results.
package assert

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/theory/jsonpath"

	"github.com/docq/docq/internal/number"
)

const (
	opEquals    = "equals"
	opNotEquals = "not_equals"
	opExists    = "exists"
	opContains  = "contains"
	opLength    = "length"
)

var (
	// ErrUnknownOperation indicates an assertion op outside the supported
	// set.
	ErrUnknownOperation = errors.New("assert: unknown operation")

	// ErrFailed indicates an assertion that evaluated but did not hold.
	ErrFailed = errors.New("assertion failed")
)

// Assertion addresses into a query result with a JSONPath expression and
// checks the first selected value against an operation.
type Assertion struct {
	Path  string `yaml:"path"`
	Op    string `yaml:"op"`
	Value any    `yaml:"value,omitempty"`
}

// Validate checks the path compiles and the operation is known.
func (a Assertion) Validate() error {
	if _, err := jsonpath.Parse(a.Path); err != nil {
		return fmt.Errorf("invalid JSONPath %q: %w", a.Path, err)
	}
	switch a.Op {
	case opEquals, opNotEquals, opExists, opContains, opLength:
		return nil
	default:
		return fmt.Errorf("%w %q", ErrUnknownOperation, a.Op)
	}
}

// Check runs the assertion against a materialized result.
func (a Assertion) Check(result any) error {
	path, err := jsonpath.Parse(a.Path)
	if err != nil {
		return fmt.Errorf("invalid JSONPath %q: %w", a.Path, err)
	}

	selected := path.Select(result)

	if a.Op == opExists {
		if len(selected) == 0 {
			return fmt.Errorf("%w: %s selected nothing", ErrFailed, a.Path)
		}
		return nil
	}

	if len(selected) == 0 {
		return fmt.Errorf("%w: %s selected nothing", ErrFailed, a.Path)
	}
	actual := selected[0]

	switch a.Op {
	case opEquals:
		if !equal(actual, a.Value) {
			return fmt.Errorf("%w: %s = %v, want %v", ErrFailed, a.Path, actual, a.Value)
		}
	case opNotEquals:
		if equal(actual, a.Value) {
			return fmt.Errorf("%w: %s = %v, want anything else", ErrFailed, a.Path, actual)
		}
	case opContains:
		text, textOK := actual.(string)
		needle, needleOK := a.Value.(string)
		if !textOK || !needleOK {
			return fmt.Errorf("%w: contains requires strings, got %T and %T", ErrFailed, actual, a.Value)
		}
		if !strings.Contains(text, needle) {
			return fmt.Errorf("%w: %q does not contain %q", ErrFailed, text, needle)
		}
	case opLength:
		want, ok := number.ToFloat64(a.Value)
		if !ok {
			return fmt.Errorf("%w: length requires a numeric value, got %T", ErrFailed, a.Value)
		}
		got, ok := lengthOf(actual)
		if !ok {
			return fmt.Errorf("%w: cannot take length of %T", ErrFailed, actual)
		}
		if float64(got) != want {
			return fmt.Errorf("%w: %s has length %d, want %v", ErrFailed, a.Path, got, a.Value)
		}
	default:
		return fmt.Errorf("%w %q", ErrUnknownOperation, a.Op)
	}

	return nil
}

func equal(left, right any) bool {
	if left == nil || right == nil {
		return left == nil && right == nil
	}
	if number.Equal(left, right) {
		return true
	}
	if _, ok := number.ToFloat64(left); ok {
		return false
	}
	if reflect.TypeOf(left) == reflect.TypeOf(right) {
		return reflect.DeepEqual(left, right)
	}
	return false
}

func lengthOf(input any) (int, bool) {
	switch current := input.(type) {
	case string:
		return len(current), true
	case []any:
		return len(current), true
	case map[string]any:
		return len(current), true
	default:
		return 0, false
	}
}
