package builtins

import (
	"context"
	"strings"
	"time"

	"github.com/docq/docq/internal/ast"
	"github.com/docq/docq/internal/eval"
	"github.com/docq/docq/internal/value"
)

// Functions returns the default function registry. Arity mismatches are
// data-shape conditions and yield null; only an unknown function name is
// fatal, and that is enforced by the evaluator itself.
func Functions() map[string]eval.Function {
	return map[string]eval.Function{
		"count":    fnCount,
		"defined":  fnDefined,
		"length":   fnLength,
		"coalesce": fnCoalesce,
		"lower":    stringFn(strings.ToLower),
		"upper":    stringFn(strings.ToUpper),
		"now":      fnNow,
	}
}

func singleArg(ctx context.Context, args []ast.Node, scope *eval.Scope, execute eval.Execute) (value.Value, bool, error) {
	if len(args) != 1 {
		return nil, false, nil
	}
	v, err := execute(ctx, args[0], scope)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// fnCount returns the number of elements of an array.
func fnCount(ctx context.Context, args []ast.Node, scope *eval.Scope, execute eval.Execute) (value.Value, error) {
	arg, ok, err := singleArg(ctx, args, scope, execute)
	if err != nil || !ok {
		return value.Null, err
	}
	if arg.Type() != value.TypeArray {
		return value.Null, nil
	}
	data, err := arg.Materialize(ctx)
	if err != nil {
		return nil, err
	}
	return value.FromAny(float64(len(data.([]any)))), nil
}

// fnDefined reports whether its argument is non-null.
func fnDefined(ctx context.Context, args []ast.Node, scope *eval.Scope, execute eval.Execute) (value.Value, error) {
	arg, ok, err := singleArg(ctx, args, scope, execute)
	if err != nil || !ok {
		return value.Null, err
	}
	return value.FromBool(arg.Type() != value.TypeNull), nil
}

// fnLength returns the length of a string (in runes), array or object.
func fnLength(ctx context.Context, args []ast.Node, scope *eval.Scope, execute eval.Execute) (value.Value, error) {
	arg, ok, err := singleArg(ctx, args, scope, execute)
	if err != nil || !ok {
		return value.Null, err
	}

	data, err := arg.Materialize(ctx)
	if err != nil {
		return nil, err
	}
	switch current := data.(type) {
	case string:
		return value.FromAny(float64(len([]rune(current)))), nil
	case []any:
		return value.FromAny(float64(len(current))), nil
	case map[string]any:
		return value.FromAny(float64(len(current))), nil
	default:
		return value.Null, nil
	}
}

// fnCoalesce evaluates its arguments in order and returns the first
// non-null result, leaving the remaining arguments unevaluated.
func fnCoalesce(ctx context.Context, args []ast.Node, scope *eval.Scope, execute eval.Execute) (value.Value, error) {
	for _, arg := range args {
		v, err := execute(ctx, arg, scope)
		if err != nil {
			return nil, err
		}
		if v.Type() != value.TypeNull {
			return v, nil
		}
	}
	return value.Null, nil
}

func stringFn(apply func(string) string) eval.Function {
	return func(ctx context.Context, args []ast.Node, scope *eval.Scope, execute eval.Execute) (value.Value, error) {
		arg, ok, err := singleArg(ctx, args, scope, execute)
		if err != nil || !ok {
			return value.Null, err
		}
		if arg.Type() != value.TypeString {
			return value.Null, nil
		}
		data, err := arg.Materialize(ctx)
		if err != nil {
			return nil, err
		}
		return value.FromAny(apply(data.(string))), nil
	}
}

// fnNow returns the current time in RFC 3339 UTC.
func fnNow(ctx context.Context, args []ast.Node, scope *eval.Scope, execute eval.Execute) (value.Value, error) {
	if len(args) != 0 {
		return value.Null, nil
	}
	return value.FromAny(time.Now().UTC().Format(time.RFC3339)), nil
}
