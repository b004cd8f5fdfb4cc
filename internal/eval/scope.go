package eval

import (
	"github.com/docq/docq/internal/source"
	"github.com/docq/docq/internal/value"
)

// Scope is the lexical context an expression is evaluated in: the parameter
// bindings fixed at the start of evaluation, the document source, the
// current value and an optional link to the enclosing scope.
//
// Scopes are immutable. Parent resolves exactly one level; the evaluator
// never walks further up the chain.
type Scope struct {
	Params map[string]value.Value
	Source source.Source
	Value  value.Value
	Parent *Scope
}

// NewScope builds the root scope for an evaluation.
func NewScope(params map[string]value.Value, src source.Source, current value.Value) *Scope {
	return &Scope{
		Params: params,
		Source: src,
		Value:  current,
	}
}

// Nested returns a child scope with the same parameters and source, a new
// current value, and the receiver as parent.
func (s *Scope) Nested(current value.Value) *Scope {
	return &Scope{
		Params: s.Params,
		Source: s.Source,
		Value:  current,
		Parent: s,
	}
}
