// Package parser turns query text into the AST consumed by the evaluator.
//
// The grammar, loosest binding first: || , && , comparisons
// (== != < <= > >= in match), + -, * / %, unary ! and -, then postfix
// accessors (.name, [index], [range], [filter], [], ->, {projection}).
package parser

import (
	"strconv"

	"github.com/docq/docq/internal/ast"
)

// Parse compiles a query expression into its AST.
func Parse(input string) (ast.Node, error) {
	tokens, err := lex(input)
	if err != nil {
		return nil, err
	}

	state := parserState{tokens: tokens}
	if state.current().typ == tokenEOF {
		return nil, syntaxError("query is empty")
	}

	root, err := state.parseExpression()
	if err != nil {
		return nil, err
	}

	if tok := state.current(); tok.typ != tokenEOF {
		return nil, syntaxError("unexpected token at position %d", tok.pos)
	}

	return root, nil
}

type parserState struct {
	tokens []token
	pos    int
}

func (p *parserState) parseExpression() (ast.Node, error) {
	return p.parseOr()
}

func (p *parserState) parseOr() (ast.Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.current().typ == tokenOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = ast.OpCall{Op: "||", Left: left, Right: right}
	}

	return left, nil
}

func (p *parserState) parseAnd() (ast.Node, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}

	for p.current().typ == tokenAnd {
		p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = ast.And{Left: left, Right: right}
	}

	return left, nil
}

// comparisonOp maps a comparison token to its registry operator name. The
// keyword operators in and match arrive as identifier tokens.
func comparisonOp(tok token) (string, bool) {
	switch tok.typ {
	case tokenEqual:
		return "==", true
	case tokenNotEqual:
		return "!=", true
	case tokenLess:
		return "<", true
	case tokenLessEqual:
		return "<=", true
	case tokenGreater:
		return ">", true
	case tokenGreaterEqual:
		return ">=", true
	case tokenIdentifier:
		if tok.literal == "in" || tok.literal == "match" {
			return tok.literal, true
		}
		return "", false
	default:
		return "", false
	}
}

func (p *parserState) parseComparison() (ast.Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := comparisonOp(p.current())
		if !ok {
			break
		}
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = ast.OpCall{Op: op, Left: left, Right: right}
	}

	return left, nil
}

func (p *parserState) parseAdditive() (ast.Node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	for {
		var op string
		switch p.current().typ {
		case tokenPlus:
			op = "+"
		case tokenMinus:
			op = "-"
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = ast.OpCall{Op: op, Left: left, Right: right}
	}
}

func (p *parserState) parseMultiplicative() (ast.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		var op string
		switch p.current().typ {
		case tokenStar:
			op = "*"
		case tokenSlash:
			op = "/"
		case tokenPercent:
			op = "%"
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = ast.OpCall{Op: op, Left: left, Right: right}
	}
}

func (p *parserState) parseUnary() (ast.Node, error) {
	switch p.current().typ {
	case tokenNot:
		p.advance()
		base, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.Not{Base: base}, nil
	case tokenMinus:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		// Fold a negated number literal; anything else becomes 0 - x.
		if literal, ok := operand.(ast.Literal); ok {
			if f, ok := literal.Value.(float64); ok {
				return ast.Literal{Value: -f}, nil
			}
		}
		return ast.OpCall{Op: "-", Left: ast.Literal{Value: float64(0)}, Right: operand}, nil
	default:
		return p.parsePostfix()
	}
}

func (p *parserState) parsePostfix() (ast.Node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		switch p.current().typ {
		case tokenDot:
			p.advance()
			name := p.current()
			if name.typ != tokenIdentifier {
				return nil, syntaxError("expected attribute name at position %d", name.pos)
			}
			p.advance()
			base = ast.Attribute{Base: base, Name: name.literal}
		case tokenArrow:
			p.advance()
			base = ast.Deref{Base: base}
			// author->name dereferences and then reads an attribute.
			if p.current().typ == tokenIdentifier {
				name := p.advance()
				base = ast.Attribute{Base: base, Name: name.literal}
			}
		case tokenLBracket:
			base, err = p.parseSubscript(base)
			if err != nil {
				return nil, err
			}
		case tokenLBrace:
			p.advance()
			query, err := p.parseObject()
			if err != nil {
				return nil, err
			}
			base = ast.Projection{Base: base, Query: query}
		case tokenPipe:
			p.advance()
			if p.current().typ != tokenLBrace {
				return nil, syntaxError("expected '{' after '|' at position %d", p.current().pos)
			}
			p.advance()
			query, err := p.parseObject()
			if err != nil {
				return nil, err
			}
			base = ast.Projection{Base: base, Query: query}
		default:
			return base, nil
		}
	}
}

// parseSubscript handles the constructs introduced by '[' after a base
// expression: flatten ([]), element ([2]), slice ([0..3]) and filter.
func (p *parserState) parseSubscript(base ast.Node) (ast.Node, error) {
	p.advance() // consume '['

	if p.current().typ == tokenRBracket {
		p.advance()
		return ast.Flatten{Base: base}, nil
	}

	first, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if typ := p.current().typ; typ == tokenDotDot || typ == tokenEllipsis {
		exclusive := typ == tokenEllipsis
		p.advance()
		right, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokenRBracket, "']'"); err != nil {
			return nil, err
		}
		return ast.Slice{Base: base, Left: first, Right: right, Exclusive: exclusive}, nil
	}

	if err := p.expect(tokenRBracket, "']'"); err != nil {
		return nil, err
	}

	// A number-literal subscript indexes; anything else filters.
	if literal, ok := first.(ast.Literal); ok {
		if _, ok := literal.Value.(float64); ok {
			return ast.Element{Base: base, Index: first}, nil
		}
	}
	return ast.Filter{Base: base, Query: first}, nil
}

func (p *parserState) parsePrimary() (ast.Node, error) {
	tok := p.current()
	switch tok.typ {
	case tokenStar:
		p.advance()
		return ast.Star{}, nil
	case tokenAt:
		p.advance()
		return ast.This{}, nil
	case tokenCaret:
		p.advance()
		return ast.Parent{}, nil
	case tokenParam:
		p.advance()
		return ast.Param{Name: tok.literal}, nil
	case tokenIdentifier:
		p.advance()
		if p.current().typ == tokenLParen {
			return p.parseCall(tok.literal)
		}
		return ast.Identifier{Name: tok.literal}, nil
	case tokenNumber:
		p.advance()
		f, err := strconv.ParseFloat(tok.literal, 64)
		if err != nil {
			return nil, syntaxError("invalid number literal %q at position %d", tok.literal, tok.pos)
		}
		return ast.Literal{Value: f}, nil
	case tokenString:
		p.advance()
		return ast.Literal{Value: tok.literal}, nil
	case tokenTrue:
		p.advance()
		return ast.Literal{Value: true}, nil
	case tokenFalse:
		p.advance()
		return ast.Literal{Value: false}, nil
	case tokenNull:
		p.advance()
		return ast.Literal{Value: nil}, nil
	case tokenLParen:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokenRParen, "')'"); err != nil {
			return nil, err
		}
		return expr, nil
	case tokenLBracket:
		return p.parseArray()
	case tokenLBrace:
		p.advance()
		return p.parseObject()
	default:
		return nil, syntaxError("unexpected token at position %d", tok.pos)
	}
}

func (p *parserState) parseCall(name string) (ast.Node, error) {
	p.advance() // consume '('

	var args []ast.Node
	for p.current().typ != tokenRParen {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		if p.current().typ != tokenComma {
			break
		}
		p.advance()
	}

	if err := p.expect(tokenRParen, "')'"); err != nil {
		return nil, err
	}
	return ast.FuncCall{Name: name, Args: args}, nil
}

func (p *parserState) parseArray() (ast.Node, error) {
	p.advance() // consume '['

	var elements []ast.Node
	for p.current().typ != tokenRBracket {
		element, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		elements = append(elements, element)

		if p.current().typ != tokenComma {
			break
		}
		p.advance()
	}

	if err := p.expect(tokenRBracket, "']'"); err != nil {
		return nil, err
	}
	return ast.Array{Elements: elements}, nil
}

// parseObject parses object attributes after the opening '{'.
func (p *parserState) parseObject() (ast.Node, error) {
	var attributes []ast.ObjectAttribute

	for p.current().typ != tokenRBrace {
		attribute, err := p.parseObjectAttribute()
		if err != nil {
			return nil, err
		}
		attributes = append(attributes, attribute)

		if p.current().typ != tokenComma {
			break
		}
		p.advance()
	}

	if err := p.expect(tokenRBrace, "'}'"); err != nil {
		return nil, err
	}
	return ast.Object{Attributes: attributes}, nil
}

func (p *parserState) parseObjectAttribute() (ast.ObjectAttribute, error) {
	tok := p.current()
	switch tok.typ {
	case tokenEllipsis:
		p.advance()
		return ast.Splat{}, nil
	case tokenString:
		p.advance()
		if err := p.expect(tokenColon, "':'"); err != nil {
			return nil, err
		}
		valueNode, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return ast.KeyValue{Key: ast.Literal{Value: tok.literal}, Value: valueNode}, nil
	case tokenIdentifier:
		p.advance()
		if p.current().typ != tokenColon {
			// Shorthand: {name} is {"name": name}.
			return ast.KeyValue{
				Key:   ast.Literal{Value: tok.literal},
				Value: ast.Identifier{Name: tok.literal},
			}, nil
		}
		p.advance()
		valueNode, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return ast.KeyValue{Key: ast.Literal{Value: tok.literal}, Value: valueNode}, nil
	default:
		return nil, syntaxError("unexpected object attribute at position %d", tok.pos)
	}
}

func (p *parserState) expect(typ tokenType, description string) error {
	if p.current().typ != typ {
		return syntaxError("expected %s at position %d", description, p.current().pos)
	}
	p.advance()
	return nil
}

func (p *parserState) current() token {
	if p.pos >= len(p.tokens) {
		return token{typ: tokenEOF, pos: len(p.tokens)}
	}
	return p.tokens[p.pos]
}

func (p *parserState) advance() token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}
