package normalizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matchc-lang/matchc/internal/descriptor"
	"github.com/matchc-lang/matchc/internal/normalizer"
	"github.com/matchc-lang/matchc/internal/parser"
	"github.com/matchc-lang/matchc/internal/pattern"
)

type shape struct {
	Kind   string  `match:"discriminator"`
	Radius float64 `match:"case=Circle"`
	Width  int     `match:"case=Rect"`
	Height int     `match:"case=Rect"`
}

type wrapper struct {
	Kind  string `match:"discriminator"`
	Inner shape  `match:"case=Boxed"`
}

func normalize(t *testing.T, src string, d *descriptor.Desc) (pattern.Node, error) {
	t.Helper()
	tree, err := parser.Parse(src)
	assert.NoError(t, err)
	return normalizer.Normalize(tree, d)
}

func TestSetLiteralAsOrShorthand(t *testing.T) {
	intDesc := descriptor.Of(0)
	setDesc := descriptor.Of(map[int]struct{}{})

	node, err := normalize(t, "{1, 2, 3}", intDesc)
	assert.NoError(t, err)
	or, ok := node.(*pattern.Or)
	assert.True(t, ok)
	assert.Len(t, or.Alternatives, 3)

	node, err = normalize(t, "{1, 2, 3}", setDesc)
	assert.NoError(t, err)
	_, ok = node.(*pattern.SetLiteral)
	assert.True(t, ok)

	node, err = normalize(t, "{1}", intDesc)
	assert.NoError(t, err)
	_, ok = node.(*pattern.Literal)
	assert.True(t, ok)
}

func TestNamedTupleShorthand(t *testing.T) {
	type point struct {
		X int
		Y int
	}
	node, err := normalize(t, "point(x, y: 2)", descriptor.Of(point{}))
	assert.NoError(t, err)

	rec, ok := node.(*pattern.Record)
	assert.True(t, ok)
	assert.Len(t, rec.Fields, 2)
	assert.False(t, rec.Fields[0].Shorthand)
	v, ok := rec.Fields[0].Pattern.(*pattern.Variable)
	assert.True(t, ok)
	assert.Equal(t, "x", v.Name)
}

func TestImplicitVariantShorthand(t *testing.T) {
	d := descriptor.Of(shape{})

	node, err := normalize(t, "shape(Circle(r))", d)
	assert.NoError(t, err)

	rec, ok := node.(*pattern.Record)
	assert.True(t, ok)
	assert.Empty(t, rec.Positional)
	assert.Len(t, rec.Fields, 2)

	assert.Equal(t, "kind", rec.Fields[0].Name)
	disc, ok := rec.Fields[0].Pattern.(*pattern.Literal)
	assert.True(t, ok)
	assert.Equal(t, pattern.LitString, disc.Kind)
	assert.Equal(t, "Circle", disc.Str)

	assert.Equal(t, "radius", rec.Fields[1].Name)
	v, ok := rec.Fields[1].Pattern.(*pattern.Variable)
	assert.True(t, ok)
	assert.Equal(t, "r", v.Name)
}

func TestImplicitVariantPositionalOrder(t *testing.T) {
	node, err := normalize(t, "shape(Rect(w, h))", descriptor.Of(shape{}))
	assert.NoError(t, err)

	rec := node.(*pattern.Record)
	assert.Equal(t, "width", rec.Fields[1].Name)
	assert.Equal(t, "height", rec.Fields[2].Name)
}

func TestImplicitVariantBareNameIsPositional(t *testing.T) {
	// A bare name inside a case is a positional binder even when it
	// spells an unrelated field name.
	node, err := normalize(t, "shape(Circle(width))", descriptor.Of(shape{}))
	assert.NoError(t, err)

	rec := node.(*pattern.Record)
	assert.Equal(t, "radius", rec.Fields[1].Name)
	v, ok := rec.Fields[1].Pattern.(*pattern.Variable)
	assert.True(t, ok)
	assert.Equal(t, "width", v.Name)
}

func TestImplicitVariantNested(t *testing.T) {
	node, err := normalize(t, "wrapper(Boxed(shape(Circle(r))))", descriptor.Of(wrapper{}))
	assert.NoError(t, err)

	outer := node.(*pattern.Record)
	assert.Equal(t, "inner", outer.Fields[1].Name)
	innerRec, ok := outer.Fields[1].Pattern.(*pattern.Record)
	assert.True(t, ok)
	assert.Equal(t, "shape", innerRec.TypeName)
	assert.Equal(t, "radius", innerRec.Fields[1].Name)
}

func TestImplicitVariantNamedForm(t *testing.T) {
	node, err := normalize(t, "shape(Rect(width: w))", descriptor.Of(shape{}))
	assert.NoError(t, err)

	rec := node.(*pattern.Record)
	assert.Equal(t, "kind", rec.Fields[0].Name)
	assert.Equal(t, "width", rec.Fields[1].Name)
}

func TestImplicitVariantErrors(t *testing.T) {
	d := descriptor.Of(shape{})

	tests := []struct {
		name string
		src  string
	}{
		{name: "unknown case", src: "shape(Triangle(a))"},
		{name: "wrong arity", src: "shape(Circle(a, b))"},
		{name: "positional on non-case", src: "shape(1)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := normalize(t, tt.src, d)
			assert.Error(t, err)
		})
	}

	type plain struct{ X int }
	_, err := normalize(t, "plain(Circle(r))", descriptor.Of(plain{}))
	assert.Error(t, err)
}

func TestNormalizeThreadsElementDescriptors(t *testing.T) {
	// A set shorthand nested inside a sequence still rewrites to an Or
	// because the element type is not a set.
	node, err := normalize(t, "[{1, 2}, x]", descriptor.Of([]int{}))
	assert.NoError(t, err)

	seq := node.(*pattern.Sequence)
	_, ok := seq.Prefix[0].Pattern.(*pattern.Or)
	assert.True(t, ok)
}
