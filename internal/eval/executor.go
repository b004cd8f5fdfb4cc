// Package eval implements the query evaluator: the node-dispatch execution
// algorithm, the lexical scope chain and the evaluation entry point.
//
// Evaluation is a pure function of (node, scope). Array-producing
// constructs (wildcard, filter, projection, flatten, array construction)
// return lazy one-shot streams so consumers control how far producers
// advance.
package eval

import (
	"context"
	"fmt"

	"github.com/docq/docq/internal/ast"
	"github.com/docq/docq/internal/value"
)

// Execute evaluates a node in a scope. Operator and function
// implementations receive it so they can evaluate their operand nodes.
type Execute func(ctx context.Context, node ast.Node, scope *Scope) (value.Value, error)

// Operator implements a named binary operator. Operands arrive unevaluated
// so the implementation decides evaluation order and short-circuiting.
type Operator func(ctx context.Context, left, right ast.Node, scope *Scope, execute Execute) (value.Value, error)

// Function implements a named function, with unevaluated argument nodes.
type Function func(ctx context.Context, args []ast.Node, scope *Scope, execute Execute) (value.Value, error)

// Executor dispatches AST nodes to their evaluation rules using the
// operator and function registries it was constructed with.
type Executor struct {
	operators map[string]Operator
	functions map[string]Function
}

// NewExecutor builds an executor over the given registries.
func NewExecutor(operators map[string]Operator, functions map[string]Function) *Executor {
	return &Executor{
		operators: operators,
		functions: functions,
	}
}

// Execute evaluates node in scope. Data-shape mismatches yield value.Null;
// structural errors (unknown operator, function or node kind) abort.
func (e *Executor) Execute(ctx context.Context, node ast.Node, scope *Scope) (value.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch n := node.(type) {
	case ast.This:
		return scope.Value, nil
	case ast.Star:
		return scope.Source.All(ctx), nil
	case ast.Parent:
		if scope.Parent == nil {
			return value.Null, nil
		}
		return scope.Parent.Value, nil
	case ast.Literal:
		return value.FromAny(n.Value), nil
	case ast.Param:
		if bound, ok := scope.Params[n.Name]; ok {
			return bound, nil
		}
		return value.Null, nil
	case ast.OpCall:
		operator, ok := e.operators[n.Op]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownOperator, n.Op)
		}
		return operator(ctx, n.Left, n.Right, scope, e.Execute)
	case ast.FuncCall:
		function, ok := e.functions[n.Name]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownFunction, n.Name)
		}
		return function(ctx, n.Args, scope, e.Execute)
	case ast.Identifier:
		return attribute(ctx, scope.Value, n.Name)
	case ast.Attribute:
		base, err := e.Execute(ctx, n.Base, scope)
		if err != nil {
			return nil, err
		}
		return attribute(ctx, base, n.Name)
	case ast.Element:
		return e.evalElement(ctx, n, scope)
	case ast.Slice:
		return e.evalSlice(ctx, n, scope)
	case ast.Filter:
		return e.evalFilter(ctx, n, scope)
	case ast.Projection:
		return e.evalProjection(ctx, n, scope)
	case ast.Flatten:
		return e.evalFlatten(ctx, n, scope)
	case ast.Deref:
		return e.evalDeref(ctx, n, scope)
	case ast.Object:
		return e.evalObject(ctx, n, scope)
	case ast.Array:
		return e.evalArray(ctx, n, scope)
	case ast.And:
		left, err := e.Execute(ctx, n.Left, scope)
		if err != nil {
			return nil, err
		}
		if !left.Bool() {
			return value.False, nil
		}
		right, err := e.Execute(ctx, n.Right, scope)
		if err != nil {
			return nil, err
		}
		return value.FromBool(right.Bool()), nil
	case ast.Not:
		base, err := e.Execute(ctx, n.Base, scope)
		if err != nil {
			return nil, err
		}
		return value.FromBool(!base.Bool()), nil
	default:
		return nil, fmt.Errorf("%w %T", ErrUnknownNode, node)
	}
}

// attribute resolves a named property against a value. Non-objects and
// missing properties yield null.
func attribute(ctx context.Context, base value.Value, name string) (value.Value, error) {
	if base.Type() != value.TypeObject {
		return value.Null, nil
	}

	data, err := base.Materialize(ctx)
	if err != nil {
		return nil, err
	}
	property, ok := data.(map[string]any)[name]
	if !ok {
		return value.Null, nil
	}
	return value.FromAny(property), nil
}

func (e *Executor) evalElement(ctx context.Context, n ast.Element, scope *Scope) (value.Value, error) {
	base, err := e.Execute(ctx, n.Base, scope)
	if err != nil {
		return nil, err
	}
	if base.Type() != value.TypeArray {
		return value.Null, nil
	}

	index, err := e.Execute(ctx, n.Index, scope)
	if err != nil {
		return nil, err
	}
	if index.Type() != value.TypeNumber {
		return value.Null, nil
	}

	data, err := base.Materialize(ctx)
	if err != nil {
		return nil, err
	}
	elements := data.([]any)

	indexData, err := index.Materialize(ctx)
	if err != nil {
		return nil, err
	}
	f := indexData.(float64)
	i := int(f)
	if float64(i) != f {
		return value.Null, nil
	}

	if i < 0 {
		i += len(elements)
	}
	if i < 0 || i >= len(elements) {
		return value.Null, nil
	}
	return value.FromAny(elements[i]), nil
}

func (e *Executor) evalSlice(ctx context.Context, n ast.Slice, scope *Scope) (value.Value, error) {
	base, err := e.Execute(ctx, n.Base, scope)
	if err != nil {
		return nil, err
	}
	if base.Type() != value.TypeArray {
		return value.Null, nil
	}

	left, err := e.Execute(ctx, n.Left, scope)
	if err != nil {
		return nil, err
	}
	right, err := e.Execute(ctx, n.Right, scope)
	if err != nil {
		return nil, err
	}
	if left.Type() != value.TypeNumber || right.Type() != value.TypeNumber {
		return value.Null, nil
	}

	data, err := base.Materialize(ctx)
	if err != nil {
		return nil, err
	}
	elements := data.([]any)

	lo, err := sliceBound(ctx, left, len(elements))
	if err != nil {
		return nil, err
	}
	hi, err := sliceBound(ctx, right, len(elements))
	if err != nil {
		return nil, err
	}
	if !n.Exclusive {
		hi++
	}

	// Negative bounds were already normalized against the length; anything
	// still negative clamps to zero. Bounds past the end simply truncate.
	lo = max(lo, 0)
	hi = max(hi, 0)
	lo = min(lo, len(elements))
	hi = min(hi, len(elements))
	if hi < lo {
		hi = lo
	}

	return value.FromAny(elements[lo:hi]), nil
}

func sliceBound(ctx context.Context, bound value.Value, length int) (int, error) {
	data, err := bound.Materialize(ctx)
	if err != nil {
		return 0, err
	}
	i := int(data.(float64))
	if i < 0 {
		i += length
	}
	return i, nil
}

func (e *Executor) evalFilter(ctx context.Context, n ast.Filter, scope *Scope) (value.Value, error) {
	base, err := e.Execute(ctx, n.Base, scope)
	if err != nil {
		return nil, err
	}
	if base.Type() != value.TypeArray {
		return value.Null, nil
	}

	elements, err := value.Elements(base)
	if err != nil {
		return nil, err
	}

	return value.NewStream(func(yield func(value.Value, error) bool) {
		for element, err := range elements {
			if err != nil {
				yield(value.Null, err)
				return
			}
			matched, err := e.Execute(ctx, n.Query, scope.Nested(element))
			if err != nil {
				yield(value.Null, err)
				return
			}
			if matched.Bool() && !yield(element, nil) {
				return
			}
		}
	}), nil
}

func (e *Executor) evalProjection(ctx context.Context, n ast.Projection, scope *Scope) (value.Value, error) {
	base, err := e.Execute(ctx, n.Base, scope)
	if err != nil {
		return nil, err
	}

	// A non-array base degenerates to a single application of the query.
	if base.Type() != value.TypeArray {
		return e.Execute(ctx, n.Query, scope.Nested(base))
	}

	elements, err := value.Elements(base)
	if err != nil {
		return nil, err
	}

	return value.NewStream(func(yield func(value.Value, error) bool) {
		for element, err := range elements {
			if err != nil {
				yield(value.Null, err)
				return
			}
			projected, err := e.Execute(ctx, n.Query, scope.Nested(element))
			if err != nil {
				yield(value.Null, err)
				return
			}
			if !yield(projected, nil) {
				return
			}
		}
	}), nil
}

func (e *Executor) evalFlatten(ctx context.Context, n ast.Flatten, scope *Scope) (value.Value, error) {
	base, err := e.Execute(ctx, n.Base, scope)
	if err != nil {
		return nil, err
	}
	if base.Type() != value.TypeArray {
		return value.Null, nil
	}

	elements, err := value.Elements(base)
	if err != nil {
		return nil, err
	}

	return value.NewStream(func(yield func(value.Value, error) bool) {
		for element, err := range elements {
			if err != nil {
				yield(value.Null, err)
				return
			}

			// Depth-one only. A non-array element is replaced by null
			// rather than dropped, preserving positions.
			if element.Type() != value.TypeArray {
				if !yield(value.Null, nil) {
					return
				}
				continue
			}

			nested, err := value.Elements(element)
			if err != nil {
				yield(value.Null, err)
				return
			}
			for inner, err := range nested {
				if err != nil {
					yield(value.Null, err)
					return
				}
				if !yield(inner, nil) {
					return
				}
			}
		}
	}), nil
}

func (e *Executor) evalDeref(ctx context.Context, n ast.Deref, scope *Scope) (value.Value, error) {
	base, err := e.Execute(ctx, n.Base, scope)
	if err != nil {
		return nil, err
	}
	if base.Type() != value.TypeObject {
		return value.Null, nil
	}

	data, err := base.Materialize(ctx)
	if err != nil {
		return nil, err
	}
	ref, ok := data.(map[string]any)["_ref"].(string)
	if !ok {
		return value.Null, nil
	}

	// Linear scan over the collection; the stream is abandoned as soon as
	// a document matches.
	documents, err := scope.Source.All(ctx).Seq()
	if err != nil {
		return nil, err
	}
	for document, err := range documents {
		if err != nil {
			return nil, err
		}
		documentData, err := document.Materialize(ctx)
		if err != nil {
			return nil, err
		}
		fields, ok := documentData.(map[string]any)
		if !ok {
			continue
		}
		if id, ok := fields["_id"].(string); ok && id == ref {
			return document, nil
		}
	}
	return value.Null, nil
}

func (e *Executor) evalObject(ctx context.Context, n ast.Object, scope *Scope) (value.Value, error) {
	result := make(map[string]any)

	for _, spec := range n.Attributes {
		switch attr := spec.(type) {
		case ast.Splat:
			// The splat source is always the current scope value.
			if scope.Value.Type() != value.TypeObject {
				continue
			}
			data, err := scope.Value.Materialize(ctx)
			if err != nil {
				return nil, err
			}
			for k, v := range data.(map[string]any) {
				result[k] = v
			}
		case ast.KeyValue:
			key, err := e.Execute(ctx, attr.Key, scope)
			if err != nil {
				return nil, err
			}
			if key.Type() != value.TypeString {
				continue
			}
			val, err := e.Execute(ctx, attr.Value, scope)
			if err != nil {
				return nil, err
			}
			if val.Type() == value.TypeNull {
				continue
			}

			keyData, err := key.Materialize(ctx)
			if err != nil {
				return nil, err
			}
			valData, err := val.Materialize(ctx)
			if err != nil {
				return nil, err
			}
			result[keyData.(string)] = valData
		default:
			return nil, fmt.Errorf("%w %T", ErrUnknownNode, spec)
		}
	}

	return value.FromAny(result), nil
}

func (e *Executor) evalArray(ctx context.Context, n ast.Array, scope *Scope) (value.Value, error) {
	// Elements see the unmodified outer scope, not each other.
	return value.NewStream(func(yield func(value.Value, error) bool) {
		for _, elementNode := range n.Elements {
			element, err := e.Execute(ctx, elementNode, scope)
			if err != nil {
				yield(value.Null, err)
				return
			}
			if !yield(element, nil) {
				return
			}
		}
	}), nil
}
