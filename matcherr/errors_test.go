package matcherr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matchc-lang/matchc/matcherr"
)

func TestSyntaxError(t *testing.T) {
	err := matcherr.NewSyntaxError(10, 5, "unexpected token")
	assert.Equal(t, matcherr.TypeSyntax, err.Type())
	assert.Equal(t, 10, err.Line)
	assert.Equal(t, 5, err.Column)
	assert.Contains(t, err.Error(), "[SyntaxError] line 10:5 unexpected token")
}

func TestSemanticError(t *testing.T) {
	err := matcherr.NewSemanticError("unknown field x")
	assert.Equal(t, matcherr.TypeSemantic, err.Type())
	assert.Contains(t, err.Error(), "[SemanticError] unknown field x")
}

func TestSemanticErrorIn(t *testing.T) {
	err := matcherr.NewSemanticErrorIn("(a, b)", "arity mismatch")
	assert.Equal(t, matcherr.TypeSemantic, err.Type())
	assert.Equal(t, "(a, b)", err.Pattern)
	assert.Equal(t, `[SemanticError] pattern "(a, b)": arity mismatch`, err.Error())
}

func TestMatchError(t *testing.T) {
	err := matcherr.NewMatchError("42 (int)")
	assert.Equal(t, matcherr.TypeMatch, err.Type())
	assert.Equal(t, "[MatchError] no arm matched value 42 (int)", err.Error())
}

func TestMultiError(t *testing.T) {
	e1 := matcherr.NewSyntaxError(1, 1, "error 1")
	e2 := matcherr.NewSyntaxError(2, 2, "error 2")
	multi := &matcherr.MultiError{Errors: []error{e1, e2}}

	assert.Equal(t, matcherr.TypeSyntax, multi.Type())
	errMsg := multi.Error()
	assert.Contains(t, errMsg, "2 error(s) occurred:")
	assert.Contains(t, errMsg, "- [SyntaxError] line 1:1 error 1")
	assert.Contains(t, errMsg, "- [SyntaxError] line 2:2 error 2")
}
