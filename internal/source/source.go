// Package source provides the read-only document collection queried by the
// wildcard and dereference constructs.
package source

import (
	"context"

	"github.com/docq/docq/internal/value"
)

// Source exposes an ordered document collection. Implementations must be
// safe for concurrent reads; the evaluator never writes.
type Source interface {
	// All returns a streamed view of every document, in collection order.
	// Each call returns a fresh stream.
	All(ctx context.Context) *value.Stream
}

// Memory is a Source over an in-memory slice of documents.
type Memory struct {
	documents []any
}

// NewMemory wraps documents as a Source. Each document should be a
// map[string]any carrying an _id field if it is to be a dereference target.
func NewMemory(documents []any) *Memory {
	return &Memory{documents: documents}
}

// Empty is a Source with no documents.
var Empty Source = NewMemory(nil)

func (m *Memory) All(ctx context.Context) *value.Stream {
	return value.NewStream(func(yield func(value.Value, error) bool) {
		for _, document := range m.documents {
			if err := ctx.Err(); err != nil {
				yield(value.Null, err)
				return
			}
			if !yield(value.FromAny(document), nil) {
				return
			}
		}
	})
}
