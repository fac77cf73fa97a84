package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matchc-lang/matchc/internal/descriptor"
	"github.com/matchc-lang/matchc/internal/normalizer"
	"github.com/matchc-lang/matchc/internal/parser"
	"github.com/matchc-lang/matchc/internal/pattern"
	"github.com/matchc-lang/matchc/internal/validator"
	"github.com/matchc-lang/matchc/matcherr"
)

type point struct {
	X int
	Y int
}

type pair struct {
	V1 int
	V2 string
}

func validate(t *testing.T, src string, d *descriptor.Desc) error {
	t.Helper()
	tree, err := parser.Parse(src)
	assert.NoError(t, err)
	tree, err = normalizer.Normalize(tree, d)
	if err != nil {
		return err
	}
	return validator.Validate(tree, d)
}

func TestValidateAccepts(t *testing.T) {
	tests := []struct {
		name string
		src  string
		v    any
	}{
		{name: "literal against int", src: "5", v: 0},
		{name: "variable against anything", src: "x", v: point{}},
		{name: "wildcard", src: "_", v: point{}},
		{name: "tuple arity match", src: "(a, b)", v: pair{}},
		{name: "record fields", src: "point(x: 1, y)", v: point{}},
		{name: "nil against pointer", src: "nil", v: &point{}},
		{name: "sequence against slice", src: "[a, *rest]", v: []int{}},
		{name: "map entries", src: `{"k": v, **rest}`, v: map[string]int{}},
		{name: "set against set", src: `{"a", "b"}`, v: map[string]struct{}{}},
		{name: "char against int elem", src: "['a', *_]", v: []rune{}},
		{name: "or with one impossible literal", src: `1 | "x"`, v: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, validate(t, tt.src, descriptor.Of(tt.v)))
		})
	}
}

func TestValidateCategoryMismatch(t *testing.T) {
	err := validate(t, "(a, b)", descriptor.Of(point{}))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "tuple pattern")
	assert.Contains(t, err.Error(), "record")
	assert.Contains(t, err.Error(), "point(x: ...)")

	err = validate(t, `{"k": v}`, descriptor.Of([]int{}))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "map pattern")
	assert.Contains(t, err.Error(), "sequence")
}

func TestValidateLiteralKinds(t *testing.T) {
	err := validate(t, `"x"`, descriptor.Of(0))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot match int")

	// The same literal is tolerated inside an Or.
	assert.NoError(t, validate(t, `5 | "x"`, descriptor.Of(0)))

	// But a category mismatch outside an Or still fails.
	err = validate(t, "5", descriptor.Of("s"))
	assert.Error(t, err)
}

func TestValidateArityDelta(t *testing.T) {
	err := validate(t, "(a, b, c)", descriptor.Of(pair{}))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "remove 1 element")

	err = validate(t, "(a)", descriptor.Of(pair{}))
	// (a) parses as grouping; use an explicit 1-of-3 array mismatch.
	assert.NoError(t, err)

	err = validate(t, "(a, b)", descriptor.Of([3]int{}))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "add 1 element")
}

func TestValidateUnknownFieldSuggestion(t *testing.T) {
	err := validate(t, "point(xx: 1)", descriptor.Of(point{}))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `no field "xx"`)
	assert.Contains(t, err.Error(), "x, y")
	assert.Contains(t, err.Error(), `did you mean "x"`)
}

func TestValidateNilAgainstNonNilable(t *testing.T) {
	err := validate(t, "nil", descriptor.Of(0))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "nil pattern")
}

func TestValidateSpreadCollision(t *testing.T) {
	// Two required positions around the spread against a fixed length
	// of one is statically impossible.
	err := validate(t, "[a, *b, c]", descriptor.Of([1]int{}))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "spread collision")

	// A default on one side resolves it.
	assert.NoError(t, validate(t, "[a, *b, c = 0]", descriptor.Of([1]int{})))

	// Against a variable-length sequence the check is deferred to
	// runtime, where a short value falls through.
	assert.NoError(t, validate(t, "[a, *b, c]", descriptor.Of([]int{})))
}

func TestValidateDuplicateMapKeys(t *testing.T) {
	err := validate(t, `{"k": a, "k": b}`, descriptor.Of(map[string]int{}))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate map pattern key")
}

func TestValidateTypeTest(t *testing.T) {
	assert.NoError(t, validate(t, "n: int", descriptor.Of(5)))
	assert.NoError(t, validate(t, "s: string", descriptor.Of("x")))

	err := validate(t, "o: Mystery", descriptor.Of(5))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `unknown type "Mystery"`)
}

func TestValidateArmsWildcardLast(t *testing.T) {
	parse := func(src string) pattern.Node {
		tree, err := parser.Parse(src)
		assert.NoError(t, err)
		return tree
	}

	assert.NoError(t, validator.ValidateArms([]pattern.Node{parse("1"), parse("_")}))
	assert.NoError(t, validator.ValidateArms([]pattern.Node{parse("1"), parse("2")}))

	err := validator.ValidateArms([]pattern.Node{parse("_"), parse("1")})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unreachable")

	// A wildcard alias is just as irrefutable.
	err = validator.ValidateArms([]pattern.Node{parse("_ @ all"), parse("1")})
	assert.Error(t, err)

	var semantic *matcherr.SemanticError
	assert.ErrorAs(t, err, &semantic)
}
