// Package builtins provides the default operator and function registries
// consulted by operator and function call nodes. The evaluator core has no
// compile-time dependency on this package; callers inject the registries
// through eval.Options.
package builtins

import (
	"context"
	"math"
	"reflect"
	"regexp"
	"strings"

	"github.com/docq/docq/internal/ast"
	"github.com/docq/docq/internal/eval"
	"github.com/docq/docq/internal/number"
	"github.com/docq/docq/internal/value"
)

// Operators returns the default operator registry: equality, ordering,
// arithmetic, membership, wildcard matching and short-circuit disjunction.
func Operators() map[string]eval.Operator {
	return map[string]eval.Operator{
		"==":    equality(false),
		"!=":    equality(true),
		"<":     ordering(func(c int) bool { return c < 0 }),
		"<=":    ordering(func(c int) bool { return c <= 0 }),
		">":     ordering(func(c int) bool { return c > 0 }),
		">=":    ordering(func(c int) bool { return c >= 0 }),
		"+":     opAdd,
		"-":     arithmetic(func(l, r float64) float64 { return l - r }),
		"*":     arithmetic(func(l, r float64) float64 { return l * r }),
		"/":     opDivide,
		"%":     arithmetic(math.Mod),
		"in":    opIn,
		"match": opMatch,
		"||":    opOr,
	}
}

// operands evaluates and materializes both operand nodes.
func operands(ctx context.Context, left, right ast.Node, scope *eval.Scope, execute eval.Execute) (value.Value, any, value.Value, any, error) {
	l, err := execute(ctx, left, scope)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	lData, err := l.Materialize(ctx)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	r, err := execute(ctx, right, scope)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	rData, err := r.Materialize(ctx)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return l, lData, r, rData, nil
}

func equality(negate bool) eval.Operator {
	return func(ctx context.Context, left, right ast.Node, scope *eval.Scope, execute eval.Execute) (value.Value, error) {
		_, lData, _, rData, err := operands(ctx, left, right, scope, execute)
		if err != nil {
			return nil, err
		}
		return value.FromBool(Equal(lData, rData) != negate), nil
	}
}

// Equal compares two materialized values: nulls to nulls, numbers with
// coercion, strings, booleans, and containers structurally.
func Equal(left, right any) bool {
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

// ordering builds a comparison operator over numbers or strings. A type
// mismatch yields null.
func ordering(accept func(int) bool) eval.Operator {
	return func(ctx context.Context, left, right ast.Node, scope *eval.Scope, execute eval.Execute) (value.Value, error) {
		_, lData, _, rData, err := operands(ctx, left, right, scope, execute)
		if err != nil {
			return nil, err
		}

		if lNum, ok := number.ToFloat64(lData); ok {
			rNum, ok := number.ToFloat64(rData)
			if !ok {
				return value.Null, nil
			}
			switch {
			case lNum < rNum:
				return value.FromBool(accept(-1)), nil
			case lNum > rNum:
				return value.FromBool(accept(1)), nil
			default:
				return value.FromBool(accept(0)), nil
			}
		}

		lStr, lOK := lData.(string)
		rStr, rOK := rData.(string)
		if !lOK || !rOK {
			return value.Null, nil
		}
		return value.FromBool(accept(strings.Compare(lStr, rStr))), nil
	}
}

func arithmetic(apply func(l, r float64) float64) eval.Operator {
	return func(ctx context.Context, left, right ast.Node, scope *eval.Scope, execute eval.Execute) (value.Value, error) {
		_, lData, _, rData, err := operands(ctx, left, right, scope, execute)
		if err != nil {
			return nil, err
		}
		lNum, lOK := number.ToFloat64(lData)
		rNum, rOK := number.ToFloat64(rData)
		if !lOK || !rOK {
			return value.Null, nil
		}
		return value.FromAny(apply(lNum, rNum)), nil
	}
}

// opAdd adds numbers, concatenates strings and concatenates arrays.
func opAdd(ctx context.Context, left, right ast.Node, scope *eval.Scope, execute eval.Execute) (value.Value, error) {
	_, lData, _, rData, err := operands(ctx, left, right, scope, execute)
	if err != nil {
		return nil, err
	}

	if lNum, ok := number.ToFloat64(lData); ok {
		if rNum, ok := number.ToFloat64(rData); ok {
			return value.FromAny(lNum + rNum), nil
		}
		return value.Null, nil
	}
	if lStr, ok := lData.(string); ok {
		if rStr, ok := rData.(string); ok {
			return value.FromAny(lStr + rStr), nil
		}
		return value.Null, nil
	}
	if lArr, ok := lData.([]any); ok {
		if rArr, ok := rData.([]any); ok {
			combined := make([]any, 0, len(lArr)+len(rArr))
			combined = append(combined, lArr...)
			combined = append(combined, rArr...)
			return value.FromAny(combined), nil
		}
	}
	return value.Null, nil
}

// opDivide yields null for a zero divisor rather than an infinity.
func opDivide(ctx context.Context, left, right ast.Node, scope *eval.Scope, execute eval.Execute) (value.Value, error) {
	_, lData, _, rData, err := operands(ctx, left, right, scope, execute)
	if err != nil {
		return nil, err
	}
	lNum, lOK := number.ToFloat64(lData)
	rNum, rOK := number.ToFloat64(rData)
	if !lOK || !rOK || rNum == 0 {
		return value.Null, nil
	}
	return value.FromAny(lNum / rNum), nil
}

// opIn tests membership of the left value in an array right operand.
func opIn(ctx context.Context, left, right ast.Node, scope *eval.Scope, execute eval.Execute) (value.Value, error) {
	_, lData, r, rData, err := operands(ctx, left, right, scope, execute)
	if err != nil {
		return nil, err
	}
	if r.Type() != value.TypeArray {
		return value.Null, nil
	}
	for _, candidate := range rData.([]any) {
		if Equal(lData, candidate) {
			return value.True, nil
		}
	}
	return value.False, nil
}

// opMatch tests a string against a '*'-wildcard pattern.
func opMatch(ctx context.Context, left, right ast.Node, scope *eval.Scope, execute eval.Execute) (value.Value, error) {
	_, lData, _, rData, err := operands(ctx, left, right, scope, execute)
	if err != nil {
		return nil, err
	}
	text, lOK := lData.(string)
	pattern, rOK := rData.(string)
	if !lOK || !rOK {
		return value.Null, nil
	}

	re, err := wildcardRegexp(pattern)
	if err != nil {
		return value.Null, nil
	}
	return value.FromBool(re.MatchString(text)), nil
}

func wildcardRegexp(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("(?i)^")
	for i, part := range strings.Split(pattern, "*") {
		if i > 0 {
			b.WriteString(".*")
		}
		b.WriteString(regexp.QuoteMeta(part))
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}

// opOr short-circuits: the right operand is not evaluated when the left
// coerces to true.
func opOr(ctx context.Context, left, right ast.Node, scope *eval.Scope, execute eval.Execute) (value.Value, error) {
	l, err := execute(ctx, left, scope)
	if err != nil {
		return nil, err
	}
	if l.Bool() {
		return value.True, nil
	}
	r, err := execute(ctx, right, scope)
	if err != nil {
		return nil, err
	}
	return value.FromBool(r.Bool()), nil
}
