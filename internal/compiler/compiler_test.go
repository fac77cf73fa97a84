package compiler_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matchc-lang/matchc/internal/compiler"
	"github.com/matchc-lang/matchc/internal/descriptor"
	"github.com/matchc-lang/matchc/internal/normalizer"
	"github.com/matchc-lang/matchc/internal/parser"
	"github.com/matchc-lang/matchc/matcherr"
)

type testObj struct {
	Value int
	Name  string
}

type shape struct {
	Kind   string  `match:"discriminator"`
	Radius float64 `match:"case=Circle"`
	Width  int     `match:"case=Rect"`
	Height int     `match:"case=Rect"`
}

// compileFor runs the full compile-time pipeline for one pattern
// against the type of sample.
func compileFor(t *testing.T, src string, sample any, opts compiler.Options) compiler.Matcher {
	t.Helper()
	d := descriptor.Of(sample)
	tree, err := parser.Parse(src)
	assert.NoError(t, err)
	tree, err = normalizer.Normalize(tree, d)
	assert.NoError(t, err)
	m, err := compiler.Compile(tree, d, opts)
	assert.NoError(t, err)
	return m
}

func run(t *testing.T, m compiler.Matcher, v any) (bool, compiler.Env) {
	t.Helper()
	env := compiler.Env{}
	ok, err := m(reflect.ValueOf(v), env)
	assert.NoError(t, err)
	return ok, env
}

func TestCompileLiteralAndVariable(t *testing.T) {
	m := compileFor(t, "42", 0, compiler.Options{})
	ok, _ := run(t, m, 42)
	assert.True(t, ok)
	ok, _ = run(t, m, 41)
	assert.False(t, ok)

	m = compileFor(t, "x", 0, compiler.Options{})
	ok, env := run(t, m, 7)
	assert.True(t, ok)
	assert.Equal(t, 7, env["x"])
}

func TestCompileVariableBindsReferenceItself(t *testing.T) {
	m := compileFor(t, "ref", &testObj{}, compiler.Options{})
	obj := &testObj{Value: 1}
	ok, env := run(t, m, obj)
	assert.True(t, ok)
	assert.Same(t, obj, env["ref"])
}

func TestCompileNilPriority(t *testing.T) {
	recordM := compileFor(t, "testObj(value: _, name: _)", &testObj{}, compiler.Options{})
	nilM := compileFor(t, "nil", &testObj{}, compiler.Options{})

	var absent *testObj
	ok, _ := run(t, recordM, absent)
	assert.False(t, ok)
	ok, _ = run(t, nilM, absent)
	assert.True(t, ok)

	present := &testObj{Value: 3, Name: "n"}
	ok, env := run(t, recordM, present)
	assert.True(t, ok)
	assert.Empty(t, env)
	ok, _ = run(t, nilM, present)
	assert.False(t, ok)
}

func TestCompileRecordFields(t *testing.T) {
	m := compileFor(t, "testObj(value: v, name: \"hi\")", testObj{}, compiler.Options{})
	ok, env := run(t, m, testObj{Value: 9, Name: "hi"})
	assert.True(t, ok)
	assert.Equal(t, 9, env["v"])

	ok, _ = run(t, m, testObj{Value: 9, Name: "bye"})
	assert.False(t, ok)
}

func TestCompileVariantDiscriminator(t *testing.T) {
	m := compileFor(t, "shape(Circle(r))", shape{}, compiler.Options{})

	ok, env := run(t, m, shape{Kind: "Circle", Radius: 2.5})
	assert.True(t, ok)
	assert.Equal(t, 2.5, env["r"])

	ok, _ = run(t, m, shape{Kind: "Rect", Width: 3, Height: 4})
	assert.False(t, ok)
}

func TestCompileOrTriesInOrder(t *testing.T) {
	m := compileFor(t, "(1 | 2 | 3) @ n", 0, compiler.Options{})
	ok, env := run(t, m, 2)
	assert.True(t, ok)
	assert.Equal(t, 2, env["n"])
	ok, _ = run(t, m, 4)
	assert.False(t, ok)
}

func TestCompileSequenceSpread(t *testing.T) {
	m := compileFor(t, "[first, *mid, last]", []int{}, compiler.Options{})

	ok, env := run(t, m, []int{1, 2, 3, 4})
	assert.True(t, ok)
	assert.Equal(t, 1, env["first"])
	assert.Equal(t, []int{2, 3}, env["mid"])
	assert.Equal(t, 4, env["last"])

	ok, env = run(t, m, []int{1, 2})
	assert.True(t, ok)
	assert.Equal(t, []int{}, env["mid"])

	// Both adjacent positions require a real element: a one-element
	// value collides and the pattern fails without raising.
	ok, _ = run(t, m, []int{1})
	assert.False(t, ok)
}

func TestCompileSequenceDefaults(t *testing.T) {
	m := compileFor(t, "[a, *rest, b = 9]", []int{}, compiler.Options{})
	ok, env := run(t, m, []int{1})
	assert.True(t, ok)
	assert.Equal(t, 1, env["a"])
	assert.Equal(t, 9, env["b"])
	assert.Equal(t, []int{}, env["rest"])

	ok, env = run(t, m, []int{1, 2, 3})
	assert.True(t, ok)
	assert.Equal(t, []int{2}, env["rest"])
	assert.Equal(t, 3, env["b"])

	m = compileFor(t, "[a, b = 0]", []int{}, compiler.Options{})
	ok, env = run(t, m, []int{5})
	assert.True(t, ok)
	assert.Equal(t, 5, env["a"])
	assert.Equal(t, 0, env["b"])

	ok, _ = run(t, m, []int{1, 2, 3})
	assert.False(t, ok)
}

func TestCompileMapEntriesAndRest(t *testing.T) {
	m := compileFor(t, `{"a": x, **rest}`, map[string]int{}, compiler.Options{})

	ok, env := run(t, m, map[string]int{"a": 1, "b": 2})
	assert.True(t, ok)
	assert.Equal(t, 1, env["x"])
	assert.Equal(t, map[string]int{"b": 2}, env["rest"])

	ok, _ = run(t, m, map[string]int{"b": 2})
	assert.False(t, ok)
}

func TestCompileSetEquality(t *testing.T) {
	m := compileFor(t, `{"a", "b"}`, map[string]struct{}{}, compiler.Options{})

	ok, _ := run(t, m, map[string]struct{}{"a": {}, "b": {}})
	assert.True(t, ok)
	ok, _ = run(t, m, map[string]struct{}{"a": {}})
	assert.False(t, ok)
	ok, _ = run(t, m, map[string]struct{}{"a": {}, "b": {}, "c": {}})
	assert.False(t, ok)
}

func TestCompileTypeTest(t *testing.T) {
	m := compileFor(t, "n: int", 0, compiler.Options{})
	ok, env := run(t, m, 5)
	assert.True(t, ok)
	assert.Equal(t, 5, env["n"])
}

func TestCompileGuards(t *testing.T) {
	m := compileFor(t, "v and v > 5", 0, compiler.Options{Evaluator: evaluator{}})

	ok, _ := run(t, m, 10)
	assert.True(t, ok)
	ok, _ = run(t, m, 3)
	assert.False(t, ok)
}

func TestCompileGuardRequiresEvaluator(t *testing.T) {
	d := descriptor.Of(0)
	tree, err := parser.Parse("v and v > 5")
	assert.NoError(t, err)
	tree, err = normalizer.Normalize(tree, d)
	assert.NoError(t, err)

	_, err = compiler.Compile(tree, d, compiler.Options{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "guard evaluator")
}

func TestDispatch(t *testing.T) {
	lit := compileFor(t, "1", 0, compiler.Options{})
	wild := compileFor(t, "_", 0, compiler.Options{})

	arms := []compiler.Arm{
		{Matcher: lit, Body: func(compiler.Env) (any, error) { return "one", nil }},
		{Matcher: wild, Body: func(compiler.Env) (any, error) { return "many", nil }},
	}

	out, err := compiler.Dispatch(reflect.ValueOf(1), arms)
	assert.NoError(t, err)
	assert.Equal(t, "one", out)

	out, err = compiler.Dispatch(reflect.ValueOf(7), arms)
	assert.NoError(t, err)
	assert.Equal(t, "many", out)
}

func TestDispatchGuardFallsThrough(t *testing.T) {
	v := compileFor(t, "x", 0, compiler.Options{})

	arms := []compiler.Arm{
		{
			Matcher: v,
			Guard:   func(env compiler.Env) (bool, error) { return env["x"].(int) > 5, nil },
			Body:    func(compiler.Env) (any, error) { return "big", nil },
		},
		{
			Matcher: v,
			Body:    func(compiler.Env) (any, error) { return "small", nil },
		},
	}

	out, err := compiler.Dispatch(reflect.ValueOf(10), arms)
	assert.NoError(t, err)
	assert.Equal(t, "big", out)

	out, err = compiler.Dispatch(reflect.ValueOf(2), arms)
	assert.NoError(t, err)
	assert.Equal(t, "small", out)
}

func TestDispatchExhaustedRaises(t *testing.T) {
	lit := compileFor(t, "1", 0, compiler.Options{})
	arms := []compiler.Arm{
		{Matcher: lit, Body: func(compiler.Env) (any, error) { return "one", nil }},
	}

	_, err := compiler.Dispatch(reflect.ValueOf(9), arms)
	assert.Error(t, err)

	var matchErr *matcherr.MatchError
	assert.ErrorAs(t, err, &matchErr)
	assert.Contains(t, err.Error(), "no arm matched")
}

// evaluator resolves the guard expressions used in these tests.
type evaluator struct{}

func (evaluator) EvalGuard(expr string, env compiler.Env) (bool, error) {
	switch expr {
	case "v > 5":
		return env["v"].(int) > 5, nil
	}
	return false, fmt.Errorf("unknown guard %q", expr)
}
