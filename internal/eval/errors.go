package eval

import "errors"

// Structural errors abort an evaluation. Every data-shape mismatch (wrong
// type, missing key, out-of-range index, unresolved reference) instead
// yields the null value and evaluation continues.
var (
	// ErrUnknownOperator indicates an operator name missing from the
	// operator registry.
	ErrUnknownOperator = errors.New("eval: unknown operator")

	// ErrUnknownFunction indicates a function name missing from the
	// function registry.
	ErrUnknownFunction = errors.New("eval: unknown function")

	// ErrUnknownNode indicates an AST node or object attribute kind the
	// executor does not recognize.
	ErrUnknownNode = errors.New("eval: unknown node type")

	// ErrInvalidDocuments indicates the documents option is not a document
	// sequence.
	ErrInvalidDocuments = errors.New("eval: documents must be a sequence")
)
