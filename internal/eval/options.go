package eval

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/docq/docq/internal/ast"
	"github.com/docq/docq/internal/source"
	"github.com/docq/docq/internal/value"
)

// IdentityParam is the parameter bound for every evaluation. When the
// caller does not supply one, a fresh UUID is generated.
const IdentityParam = "identity"

// Options configures a single evaluation.
type Options struct {
	// Documents is the collection to query: nil for an empty collection, a
	// []any or []map[string]any of documents, or a prebuilt source.Source.
	// Anything else is a fatal configuration error.
	Documents any

	// Params are the external parameter bindings, fixed for the whole
	// evaluation.
	Params map[string]any

	// Operators and Functions are the registries consulted by operator and
	// function call nodes.
	Operators map[string]Operator
	Functions map[string]Function
}

// Evaluate runs a query AST against the configured document collection and
// returns the resulting value for the caller to materialize.
func Evaluate(ctx context.Context, node ast.Node, opts Options) (value.Value, error) {
	src, err := documentSource(opts.Documents)
	if err != nil {
		return nil, err
	}

	params := make(map[string]value.Value, len(opts.Params)+1)
	for name, v := range opts.Params {
		params[name] = value.FromAny(v)
	}
	if _, ok := params[IdentityParam]; !ok {
		params[IdentityParam] = value.FromAny(uuid.NewString())
	}

	executor := NewExecutor(opts.Operators, opts.Functions)
	return executor.Execute(ctx, node, NewScope(params, src, value.Null))
}

func documentSource(documents any) (source.Source, error) {
	switch docs := documents.(type) {
	case nil:
		return source.Empty, nil
	case source.Source:
		return docs, nil
	case []any:
		return source.NewMemory(docs), nil
	case []map[string]any:
		converted := make([]any, len(docs))
		for i, doc := range docs {
			converted[i] = doc
		}
		return source.NewMemory(converted), nil
	default:
		return nil, fmt.Errorf("%w, got %T", ErrInvalidDocuments, documents)
	}
}
