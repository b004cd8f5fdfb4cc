package parser

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenIdentifier
	tokenNumber
	tokenString
	tokenTrue
	tokenFalse
	tokenNull
	tokenParam
	tokenStar
	tokenAt
	tokenCaret
	tokenDot
	tokenDotDot
	tokenEllipsis
	tokenArrow
	tokenPipe
	tokenOr
	tokenAnd
	tokenNot
	tokenEqual
	tokenNotEqual
	tokenLess
	tokenLessEqual
	tokenGreater
	tokenGreaterEqual
	tokenPlus
	tokenMinus
	tokenSlash
	tokenPercent
	tokenLParen
	tokenRParen
	tokenLBracket
	tokenRBracket
	tokenLBrace
	tokenRBrace
	tokenComma
	tokenColon
)

type token struct {
	typ     tokenType
	literal string
	pos     int
}

func lex(input string) ([]token, error) {
	tokens := make([]token, 0, len(input)/2)
	pos := 0

	for pos < len(input) {
		r, size := utf8.DecodeRuneInString(input[pos:])
		if unicode.IsSpace(r) {
			pos += size
			continue
		}

		if isIdentifierStart(r) {
			literal, nextPos := lexIdentifier(input, pos)
			start := pos
			pos = nextPos
			switch literal {
			case "true":
				tokens = append(tokens, token{typ: tokenTrue, pos: start})
			case "false":
				tokens = append(tokens, token{typ: tokenFalse, pos: start})
			case "null":
				tokens = append(tokens, token{typ: tokenNull, pos: start})
			default:
				tokens = append(tokens, token{typ: tokenIdentifier, literal: literal, pos: start})
			}
			continue
		}

		if input[pos] >= '0' && input[pos] <= '9' {
			numberToken, nextPos, err := lexNumber(input, pos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, numberToken)
			pos = nextPos
			continue
		}

		if input[pos] == '\'' || input[pos] == '"' {
			literal, nextPos, err := lexString(input, pos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{typ: tokenString, literal: literal, pos: pos})
			pos = nextPos
			continue
		}

		if input[pos] == '$' {
			start := pos
			name, nextPos := lexIdentifier(input, pos+1)
			if name == "" {
				return nil, syntaxError("expected parameter name after '$' at position %d", start)
			}
			tokens = append(tokens, token{typ: tokenParam, literal: name, pos: start})
			pos = nextPos
			continue
		}

		if r >= utf8.RuneSelf {
			return nil, syntaxError("unexpected character %q at position %d", r, pos)
		}

		symbol, nextPos, err := lexSymbol(input, pos)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, symbol)
		pos = nextPos
	}

	tokens = append(tokens, token{typ: tokenEOF, pos: len(input)})
	return tokens, nil
}

func lexSymbol(input string, pos int) (token, int, error) {
	two := ""
	if pos+1 < len(input) {
		two = input[pos : pos+2]
	}

	switch two {
	case "==":
		return token{typ: tokenEqual, pos: pos}, pos + 2, nil
	case "!=":
		return token{typ: tokenNotEqual, pos: pos}, pos + 2, nil
	case "<=":
		return token{typ: tokenLessEqual, pos: pos}, pos + 2, nil
	case ">=":
		return token{typ: tokenGreaterEqual, pos: pos}, pos + 2, nil
	case "&&":
		return token{typ: tokenAnd, pos: pos}, pos + 2, nil
	case "||":
		return token{typ: tokenOr, pos: pos}, pos + 2, nil
	case "->":
		return token{typ: tokenArrow, pos: pos}, pos + 2, nil
	}

	switch input[pos] {
	case '.':
		dots := 1
		for pos+dots < len(input) && input[pos+dots] == '.' && dots < 3 {
			dots++
		}
		switch dots {
		case 1:
			return token{typ: tokenDot, pos: pos}, pos + 1, nil
		case 2:
			return token{typ: tokenDotDot, pos: pos}, pos + 2, nil
		default:
			return token{typ: tokenEllipsis, pos: pos}, pos + 3, nil
		}
	case '*':
		return token{typ: tokenStar, pos: pos}, pos + 1, nil
	case '@':
		return token{typ: tokenAt, pos: pos}, pos + 1, nil
	case '^':
		return token{typ: tokenCaret, pos: pos}, pos + 1, nil
	case '|':
		return token{typ: tokenPipe, pos: pos}, pos + 1, nil
	case '!':
		return token{typ: tokenNot, pos: pos}, pos + 1, nil
	case '<':
		return token{typ: tokenLess, pos: pos}, pos + 1, nil
	case '>':
		return token{typ: tokenGreater, pos: pos}, pos + 1, nil
	case '+':
		return token{typ: tokenPlus, pos: pos}, pos + 1, nil
	case '-':
		return token{typ: tokenMinus, pos: pos}, pos + 1, nil
	case '/':
		return token{typ: tokenSlash, pos: pos}, pos + 1, nil
	case '%':
		return token{typ: tokenPercent, pos: pos}, pos + 1, nil
	case '(':
		return token{typ: tokenLParen, pos: pos}, pos + 1, nil
	case ')':
		return token{typ: tokenRParen, pos: pos}, pos + 1, nil
	case '[':
		return token{typ: tokenLBracket, pos: pos}, pos + 1, nil
	case ']':
		return token{typ: tokenRBracket, pos: pos}, pos + 1, nil
	case '{':
		return token{typ: tokenLBrace, pos: pos}, pos + 1, nil
	case '}':
		return token{typ: tokenRBrace, pos: pos}, pos + 1, nil
	case ',':
		return token{typ: tokenComma, pos: pos}, pos + 1, nil
	case ':':
		return token{typ: tokenColon, pos: pos}, pos + 1, nil
	default:
		return token{}, 0, syntaxError("unexpected character %q at position %d", input[pos], pos)
	}
}

// lexIdentifier consumes identifier runes starting at pos and returns the
// literal with the position past it.
func lexIdentifier(input string, pos int) (string, int) {
	start := pos
	for pos < len(input) {
		r, size := utf8.DecodeRuneInString(input[pos:])
		if !isIdentifierPart(r) {
			break
		}
		pos += size
	}
	return input[start:pos], pos
}

func isIdentifierStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentifierPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func lexNumber(input string, start int) (token, int, error) {
	pos := start
	for pos < len(input) && input[pos] >= '0' && input[pos] <= '9' {
		pos++
	}

	// A '.' is part of the number only when followed by a digit; otherwise
	// it starts an attribute access or a range.
	if pos+1 < len(input) && input[pos] == '.' && input[pos+1] >= '0' && input[pos+1] <= '9' {
		pos++
		for pos < len(input) && input[pos] >= '0' && input[pos] <= '9' {
			pos++
		}
	}

	literal := input[start:pos]
	if _, err := strconv.ParseFloat(literal, 64); err != nil {
		return token{}, 0, syntaxError("invalid number %q at position %d", literal, start)
	}

	return token{typ: tokenNumber, literal: literal, pos: start}, pos, nil
}

func lexString(input string, start int) (string, int, error) {
	quote := input[start]
	var b strings.Builder

	for pos := start + 1; pos < len(input); pos++ {
		ch := input[pos]
		if ch == quote {
			return b.String(), pos + 1, nil
		}

		if ch == '\\' {
			pos++
			if pos >= len(input) {
				return "", 0, syntaxError("unterminated escape sequence at position %d", start)
			}
			switch escaped := input[pos]; escaped {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(escaped)
			}
			continue
		}

		b.WriteByte(ch)
	}

	return "", 0, syntaxError("unterminated string at position %d", start)
}
