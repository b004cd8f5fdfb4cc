// Package ast defines the node types produced by the query parser and
// consumed by the evaluator. Nodes are immutable; the evaluator never
// modifies them.
package ast

// Node is one construct of a parsed query. The set of implementations is
// closed: the evaluator matches exhaustively over it and treats anything
// else as a structural error.
type Node interface {
	astNode()
}

// This resolves to the current scope value.
type This struct{}

// Star resolves to the full document collection as a streamed array.
type Star struct{}

// Parent resolves to the enclosing scope's value, exactly one level up.
type Parent struct{}

// Literal carries a constant value: nil, bool, float64 or string.
type Literal struct {
	Value any
}

// Param resolves a named parameter bound at evaluation start.
type Param struct {
	Name string
}

// Identifier resolves a property of the current scope value.
type Identifier struct {
	Name string
}

// Attribute resolves a property of an explicit base expression.
type Attribute struct {
	Base Node
	Name string
}

// Element indexes into an array; negative indices count from the end.
type Element struct {
	Base  Node
	Index Node
}

// Slice selects a sub-range of an array. When Exclusive is false the right
// bound is included in the result.
type Slice struct {
	Base      Node
	Left      Node
	Right     Node
	Exclusive bool
}

// Filter keeps the elements of Base for which Query is true.
type Filter struct {
	Base  Node
	Query Node
}

// Projection applies Query to every element of an array Base, or once to a
// non-array Base.
type Projection struct {
	Base  Node
	Query Node
}

// Flatten expands nested arrays of Base by one level.
type Flatten struct {
	Base Node
}

// Deref resolves the _ref of an object Base to the document with the
// matching _id.
type Deref struct {
	Base Node
}

// Object constructs an object by applying its attributes in order.
type Object struct {
	Attributes []ObjectAttribute
}

// ObjectAttribute is one entry of an Object construction. The set of
// implementations is closed; an unknown kind is a structural error.
type ObjectAttribute interface {
	objectAttribute()
}

// Splat merges every property of the current scope value into the object
// under construction.
type Splat struct{}

// KeyValue stores the result of Value under the key produced by Key.
type KeyValue struct {
	Key   Node
	Value Node
}

// Array constructs an array by evaluating its elements in order against the
// outer scope.
type Array struct {
	Elements []Node
}

// And is boolean conjunction with short-circuit evaluation of Right.
type And struct {
	Left  Node
	Right Node
}

// Not is boolean complement.
type Not struct {
	Base Node
}

// OpCall invokes a named binary operator from the operator registry with
// its operand nodes unevaluated.
type OpCall struct {
	Op    string
	Left  Node
	Right Node
}

// FuncCall invokes a named function from the function registry with its
// argument nodes unevaluated.
type FuncCall struct {
	Name string
	Args []Node
}

func (This) astNode()       {}
func (Star) astNode()       {}
func (Parent) astNode()     {}
func (Literal) astNode()    {}
func (Param) astNode()      {}
func (Identifier) astNode() {}
func (Attribute) astNode()  {}
func (Element) astNode()    {}
func (Slice) astNode()      {}
func (Filter) astNode()     {}
func (Projection) astNode() {}
func (Flatten) astNode()    {}
func (Deref) astNode()      {}
func (Object) astNode()     {}
func (Array) astNode()      {}
func (And) astNode()        {}
func (Not) astNode()        {}
func (OpCall) astNode()     {}
func (FuncCall) astNode()   {}

func (Splat) objectAttribute()    {}
func (KeyValue) objectAttribute() {}
