// Package value implements the evaluator's result representation: typed,
// immutable values that are either eagerly held or, for arrays, lazily
// produced by a one-shot stream.
package value

import (
	"context"

	"github.com/docq/docq/internal/number"
)

// Type identifies the runtime type of a value.
type Type int

const (
	TypeNull Type = iota
	TypeBool
	TypeNumber
	TypeString
	TypeObject
	TypeArray
)

func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBool:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeObject:
		return "object"
	case TypeArray:
		return "array"
	default:
		return "unknown"
	}
}

// Value is the result of evaluating a query expression. A value's type
// never changes after construction.
//
// Bool reports the boolean coercion used by filters and logic constructs:
// true only for the literal boolean true, false for everything else.
//
// Materialize returns the fully realized underlying data (nil, bool,
// float64, string, map[string]any or []any), draining lazy streams first.
type Value interface {
	Type() Type
	Bool() bool
	Materialize(ctx context.Context) (any, error)
}

// Canonical singletons.
var (
	Null  Value = eager{typ: TypeNull}
	True  Value = eager{typ: TypeBool, data: true}
	False Value = eager{typ: TypeBool, data: false}
)

type eager struct {
	typ  Type
	data any
}

func (e eager) Type() Type { return e.typ }

func (e eager) Bool() bool { return e.typ == TypeBool && e.data == true }

func (e eager) Materialize(_ context.Context) (any, error) { return e.data, nil }

// FromBool returns the canonical boolean value.
func FromBool(b bool) Value {
	if b {
		return True
	}
	return False
}

// FromAny wraps decoded data as an eager value. Numeric types are
// normalized to float64; unsupported types map to Null. A Value passes
// through unchanged.
func FromAny(data any) Value {
	switch current := data.(type) {
	case nil:
		return Null
	case Value:
		return current
	case bool:
		return FromBool(current)
	case string:
		return eager{typ: TypeString, data: current}
	case map[string]any:
		return eager{typ: TypeObject, data: current}
	case []any:
		return eager{typ: TypeArray, data: current}
	default:
		if f, ok := number.ToFloat64(current); ok {
			return eager{typ: TypeNumber, data: f}
		}
		return Null
	}
}
