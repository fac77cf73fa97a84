package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matchc-lang/matchc/internal/parser"
	"github.com/matchc-lang/matchc/internal/pattern"
)

func TestParseRendering(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "wildcard", input: "_", expected: "_"},
		{name: "nil", input: "nil", expected: "nil"},
		{name: "variable", input: "x", expected: "x"},
		{name: "int literal", input: "42", expected: "42"},
		{name: "negative int", input: "-7", expected: "-7"},
		{name: "hex literal", input: "0x1F", expected: "31"},
		{name: "underscored int", input: "1_000_000", expected: "1000000"},
		{name: "float literal", input: "3.25", expected: "3.25"},
		{name: "char literal", input: "'a'", expected: "'a'"},
		{name: "string literal", input: `"hello"`, expected: `"hello"`},
		{name: "raw string", input: "`multi\nline`", expected: `"multi\nline"`},
		{name: "bool literal", input: "true", expected: "true"},
		{name: "alias", input: "5 @ five", expected: "5 @ five"},
		{name: "or", input: "5 | 10 | 15", expected: "5 | 10 | 15"},
		{name: "aliased or", input: "(5 | 10 | 15) @ val", expected: "5 | 10 | 15 @ val"},
		{name: "tuple", input: "(a, b)", expected: "(a, b)"},
		{name: "grouping is not a tuple", input: "(a)", expected: "a"},
		{name: "record named fields", input: "Point(x: 1, y: b)", expected: "Point(x: 1, y: b)"},
		{name: "record shorthand field", input: "Point(x, y)", expected: "Point(x, y)"},
		{name: "implicit variant", input: "Shape(Circle(r))", expected: "Shape(Circle(r))"},
		{name: "typed pattern", input: "n: int", expected: "n: int"},
		{name: "sequence", input: "[1, 2, 3]", expected: "[1, 2, 3]"},
		{name: "sequence spread", input: "[first, *rest]", expected: "[first, *rest]"},
		{name: "anonymous spread", input: "[first, *_, last]", expected: "[first, *_, last]"},
		{name: "sequence default", input: "[a, b = 0]", expected: "[a, b = 0]"},
		{name: "map", input: `{"k": v}`, expected: `{"k": v}`},
		{name: "map with rest", input: `{"k": v, **rest}`, expected: `{"k": v, **rest}`},
		{name: "map rest only", input: "{**rest}", expected: "{**rest}"},
		{name: "empty map", input: "{}", expected: "{}"},
		{name: "set literal", input: "{1, 2, 3}", expected: "{1, 2, 3}"},
		{name: "guard", input: "x and x > 5", expected: "x and x > 5"},
		{name: "two guards", input: "x and x > 5 and x < 10", expected: "x and x > 5 and x < 10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := parser.Parse(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, node.String())
		})
	}
}

func TestParseNodeKinds(t *testing.T) {
	node, err := parser.Parse("((5 | 10 | 15) @ val, str)")
	assert.NoError(t, err)

	tup, ok := node.(*pattern.Tuple)
	assert.True(t, ok)
	assert.Len(t, tup.Elements, 2)

	alias, ok := tup.Elements[0].(*pattern.Alias)
	assert.True(t, ok)
	assert.Equal(t, "val", alias.Name)
	or, ok := alias.Inner.(*pattern.Or)
	assert.True(t, ok)
	assert.Len(t, or.Alternatives, 3)

	v, ok := tup.Elements[1].(*pattern.Variable)
	assert.True(t, ok)
	assert.Equal(t, "str", v.Name)
}

func TestParseGuardCapturesHostExpression(t *testing.T) {
	node, err := parser.Parse("(a, b) and a > b and contains(a, [1, 2])")
	assert.NoError(t, err)

	g, ok := node.(*pattern.Guarded)
	assert.True(t, ok)
	assert.Equal(t, []string{"a > b", "contains(a, [1, 2])"}, g.Conditions)
}

func TestParseLiteralSpellingsNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  pattern.LiteralKind
		check func(t *testing.T, lit *pattern.Literal)
	}{
		{name: "octal", input: "0o17", kind: pattern.LitInt,
			check: func(t *testing.T, lit *pattern.Literal) { assert.Equal(t, int64(15), lit.Int) }},
		{name: "binary", input: "0b101", kind: pattern.LitInt,
			check: func(t *testing.T, lit *pattern.Literal) { assert.Equal(t, int64(5), lit.Int) }},
		{name: "exponent float", input: "1e3", kind: pattern.LitFloat,
			check: func(t *testing.T, lit *pattern.Literal) { assert.Equal(t, float64(1000), lit.Float) }},
		{name: "escaped string", input: `"a\nb"`, kind: pattern.LitString,
			check: func(t *testing.T, lit *pattern.Literal) { assert.Equal(t, "a\nb", lit.Str) }},
		{name: "escaped char", input: `'\t'`, kind: pattern.LitChar,
			check: func(t *testing.T, lit *pattern.Literal) { assert.Equal(t, '\t', lit.Char) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := parser.Parse(tt.input)
			assert.NoError(t, err)
			lit, ok := node.(*pattern.Literal)
			assert.True(t, ok)
			assert.Equal(t, tt.kind, lit.Kind)
			tt.check(t, lit)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty tuple", input: "()"},
		{name: "two spreads", input: "[*a, *b]"},
		{name: "dangling pipe", input: "1 |"},
		{name: "missing alias name", input: "1 @"},
		{name: "mixed record arguments", input: "Point(x: 1, 2)"},
		{name: "empty guard", input: "x and"},
		{name: "unterminated string", input: `"abc`},
		{name: "trailing garbage", input: "1 2"},
		{name: "negated bool", input: "-true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse(tt.input)
			assert.Error(t, err)
		})
	}
}
