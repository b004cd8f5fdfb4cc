// Package number converts the numeric types produced by JSON and YAML
// decoding into the evaluator's canonical float64 representation.
package number

import "encoding/json"

// ToFloat64 converts supported numeric values to float64.
func ToFloat64(value any) (float64, bool) {
	switch current := value.(type) {
	case int:
		return float64(current), true
	case int8:
		return float64(current), true
	case int16:
		return float64(current), true
	case int32:
		return float64(current), true
	case int64:
		return float64(current), true
	case uint:
		return float64(current), true
	case uint8:
		return float64(current), true
	case uint16:
		return float64(current), true
	case uint32:
		return float64(current), true
	case uint64:
		return float64(current), true
	case float32:
		return float64(current), true
	case float64:
		return current, true
	case json.Number:
		parsed, err := current.Float64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// Equal compares two values as numbers. It reports false when either value
// is not numeric.
func Equal(left, right any) bool {
	leftNumber, leftOK := ToFloat64(left)
	rightNumber, rightOK := ToFloat64(right)
	return leftOK && rightOK && leftNumber == rightNumber
}
