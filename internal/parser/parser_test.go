package parser

import (
	"reflect"
	"testing"

	"github.com/docq/docq/internal/ast"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		want  ast.Node
	}{
		{name: "star", query: "*", want: ast.Star{}},
		{name: "this", query: "@", want: ast.This{}},
		{name: "parent", query: "^", want: ast.Parent{}},
		{name: "identifier", query: "title", want: ast.Identifier{Name: "title"}},
		{name: "unicode_identifier", query: "prénom", want: ast.Identifier{Name: "prénom"}},
		{name: "param", query: "$who", want: ast.Param{Name: "who"}},
		{name: "unicode_param", query: "$größe", want: ast.Param{Name: "größe"}},
		{name: "string_literal", query: `'hello'`, want: ast.Literal{Value: "hello"}},
		{name: "number_literal", query: "4.5", want: ast.Literal{Value: 4.5}},
		{name: "negative_number", query: "-2", want: ast.Literal{Value: -2.0}},
		{name: "true_literal", query: "true", want: ast.Literal{Value: true}},
		{name: "null_literal", query: "null", want: ast.Literal{Value: nil}},
		{
			name:  "attribute_chain",
			query: "author.name",
			want:  ast.Attribute{Base: ast.Identifier{Name: "author"}, Name: "name"},
		},
		{
			name:  "element",
			query: "*[0]",
			want:  ast.Element{Base: ast.Star{}, Index: ast.Literal{Value: 0.0}},
		},
		{
			name:  "negative_element",
			query: "*[-1]",
			want:  ast.Element{Base: ast.Star{}, Index: ast.Literal{Value: -1.0}},
		},
		{
			name:  "slice_inclusive",
			query: "*[1..3]",
			want: ast.Slice{
				Base:  ast.Star{},
				Left:  ast.Literal{Value: 1.0},
				Right: ast.Literal{Value: 3.0},
			},
		},
		{
			name:  "slice_exclusive",
			query: "*[1...3]",
			want: ast.Slice{
				Base:      ast.Star{},
				Left:      ast.Literal{Value: 1.0},
				Right:     ast.Literal{Value: 3.0},
				Exclusive: true,
			},
		},
		{
			name:  "filter",
			query: "*[age >= 18]",
			want: ast.Filter{
				Base:  ast.Star{},
				Query: ast.OpCall{Op: ">=", Left: ast.Identifier{Name: "age"}, Right: ast.Literal{Value: 18.0}},
			},
		},
		{name: "flatten", query: "tags[]", want: ast.Flatten{Base: ast.Identifier{Name: "tags"}}},
		{name: "deref", query: "author->", want: ast.Deref{Base: ast.Identifier{Name: "author"}}},
		{
			name:  "deref_attribute",
			query: "author->name",
			want:  ast.Attribute{Base: ast.Deref{Base: ast.Identifier{Name: "author"}}, Name: "name"},
		},
		{
			name:  "deref_projection",
			query: "author->{name}",
			want: ast.Projection{
				Base: ast.Deref{Base: ast.Identifier{Name: "author"}},
				Query: ast.Object{Attributes: []ast.ObjectAttribute{
					ast.KeyValue{Key: ast.Literal{Value: "name"}, Value: ast.Identifier{Name: "name"}},
				}},
			},
		},
		{
			name:  "projection",
			query: `*{"t": title}`,
			want: ast.Projection{
				Base: ast.Star{},
				Query: ast.Object{Attributes: []ast.ObjectAttribute{
					ast.KeyValue{Key: ast.Literal{Value: "t"}, Value: ast.Identifier{Name: "title"}},
				}},
			},
		},
		{
			name:  "pipe_projection",
			query: "*|{title}",
			want: ast.Projection{
				Base: ast.Star{},
				Query: ast.Object{Attributes: []ast.ObjectAttribute{
					ast.KeyValue{Key: ast.Literal{Value: "title"}, Value: ast.Identifier{Name: "title"}},
				}},
			},
		},
		{
			name:  "object_with_splat",
			query: `{..., "extra": 1}`,
			want: ast.Object{Attributes: []ast.ObjectAttribute{
				ast.Splat{},
				ast.KeyValue{Key: ast.Literal{Value: "extra"}, Value: ast.Literal{Value: 1.0}},
			}},
		},
		{
			name:  "array_construction",
			query: "[1, 'two', @]",
			want: ast.Array{Elements: []ast.Node{
				ast.Literal{Value: 1.0},
				ast.Literal{Value: "two"},
				ast.This{},
			}},
		},
		{
			name:  "function_call",
			query: "count(*)",
			want:  ast.FuncCall{Name: "count", Args: []ast.Node{ast.Star{}}},
		},
		{
			name:  "function_call_no_args",
			query: "now()",
			want:  ast.FuncCall{Name: "now"},
		},
		{
			name:  "and",
			query: "a && b",
			want:  ast.And{Left: ast.Identifier{Name: "a"}, Right: ast.Identifier{Name: "b"}},
		},
		{
			name:  "or_is_operator_call",
			query: "a || b",
			want:  ast.OpCall{Op: "||", Left: ast.Identifier{Name: "a"}, Right: ast.Identifier{Name: "b"}},
		},
		{name: "not", query: "!a", want: ast.Not{Base: ast.Identifier{Name: "a"}}},
		{
			name:  "in_operator",
			query: "x in [1, 2]",
			want: ast.OpCall{
				Op:   "in",
				Left: ast.Identifier{Name: "x"},
				Right: ast.Array{Elements: []ast.Node{
					ast.Literal{Value: 1.0},
					ast.Literal{Value: 2.0},
				}},
			},
		},
		{
			name:  "match_operator",
			query: "name match 'a*'",
			want: ast.OpCall{
				Op:    "match",
				Left:  ast.Identifier{Name: "name"},
				Right: ast.Literal{Value: "a*"},
			},
		},
		{
			name:  "precedence_and_before_or",
			query: "a || b && c",
			want: ast.OpCall{
				Op:    "||",
				Left:  ast.Identifier{Name: "a"},
				Right: ast.And{Left: ast.Identifier{Name: "b"}, Right: ast.Identifier{Name: "c"}},
			},
		},
		{
			name:  "precedence_multiplicative",
			query: "1 + 2 * 3",
			want: ast.OpCall{
				Op:   "+",
				Left: ast.Literal{Value: 1.0},
				Right: ast.OpCall{
					Op:    "*",
					Left:  ast.Literal{Value: 2.0},
					Right: ast.Literal{Value: 3.0},
				},
			},
		},
		{
			name:  "parentheses",
			query: "(1 + 2) * 3",
			want: ast.OpCall{
				Op: "*",
				Left: ast.OpCall{
					Op:    "+",
					Left:  ast.Literal{Value: 1.0},
					Right: ast.Literal{Value: 2.0},
				},
				Right: ast.Literal{Value: 3.0},
			},
		},
		{
			name:  "filter_then_projection",
			query: "*[age > 21]{name}",
			want: ast.Projection{
				Base: ast.Filter{
					Base:  ast.Star{},
					Query: ast.OpCall{Op: ">", Left: ast.Identifier{Name: "age"}, Right: ast.Literal{Value: 21.0}},
				},
				Query: ast.Object{Attributes: []ast.ObjectAttribute{
					ast.KeyValue{Key: ast.Literal{Value: "name"}, Value: ast.Identifier{Name: "name"}},
				}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.query)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.query, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Parse(%q) = %#v, want %#v", tt.query, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
	}{
		{name: "empty", query: "   "},
		{name: "unterminated_string", query: "'abc"},
		{name: "missing_paren", query: "(1 + 2"},
		{name: "missing_bracket", query: "*[age > 1"},
		{name: "missing_attribute_name", query: "a."},
		{name: "bare_dollar", query: "$"},
		{name: "bad_object_attribute", query: "{1: 2}"},
		{name: "trailing_garbage", query: "a b"},
		{name: "pipe_without_projection", query: "a | b"},
		{name: "non_letter_unicode", query: "a € b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.query); err == nil {
				t.Fatalf("Parse(%q) expected error", tt.query)
			}
		})
	}
}
