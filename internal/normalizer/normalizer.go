// Package normalizer rewrites parsed shorthand forms into their
// canonical pattern tree shape before validation: set-literal-as-OR,
// the implicit variant shorthand Type(Case(...)), and the named-tuple
// record shorthand. Normalization is a pure function of the pattern and
// the scrutinee descriptor.
package normalizer

import (
	"github.com/matchc-lang/matchc/internal/descriptor"
	"github.com/matchc-lang/matchc/internal/pattern"
	"github.com/matchc-lang/matchc/matcherr"
)

// Normalize resolves all shorthand in n against the scrutinee
// descriptor d, returning the canonical tree. The input is not mutated.
func Normalize(n pattern.Node, d *descriptor.Desc) (pattern.Node, error) {
	switch p := n.(type) {
	case *pattern.Literal, *pattern.Wildcard, *pattern.Variable, *pattern.Nil, *pattern.TypeTest:
		return n, nil

	case *pattern.Alias:
		inner, err := Normalize(p.Inner, d)
		if err != nil {
			return nil, err
		}
		return pattern.NewAlias(p.Pos(), inner, p.Name), nil

	case *pattern.Guarded:
		inner, err := Normalize(p.Inner, d)
		if err != nil {
			return nil, err
		}
		return pattern.NewGuarded(p.Pos(), inner, p.Conditions), nil

	case *pattern.Or:
		alts := make([]pattern.Node, len(p.Alternatives))
		for i, alt := range p.Alternatives {
			na, err := Normalize(alt, d)
			if err != nil {
				return nil, err
			}
			alts[i] = na
		}
		return pattern.NewOr(p.Pos(), alts), nil

	case *pattern.Tuple:
		return normalizeTuple(p, d)

	case *pattern.Record:
		return normalizeRecord(p, d)

	case *pattern.Sequence:
		return normalizeSequence(p, d)

	case *pattern.Map:
		return normalizeMap(p, d)

	case *pattern.SetLiteral:
		return normalizeSetLiteral(p, d)
	}
	return n, nil
}

// normalizeSetLiteral keeps a set literal only against a set-typed
// scrutinee; against anything else {a, b, c} is sugar for a | b | c.
func normalizeSetLiteral(p *pattern.SetLiteral, d *descriptor.Desc) (pattern.Node, error) {
	u := d.Unwrap()
	if u.Kind == descriptor.KindSet {
		return p, nil
	}
	if len(p.Elements) == 1 {
		return p.Elements[0], nil
	}
	alts := make([]pattern.Node, len(p.Elements))
	for i, e := range p.Elements {
		alts[i] = e
	}
	return pattern.NewOr(p.Pos(), alts), nil
}

func normalizeTuple(p *pattern.Tuple, d *descriptor.Desc) (pattern.Node, error) {
	u := d.Unwrap()
	elems := make([]pattern.Node, len(p.Elements))
	for i, e := range p.Elements {
		ed := elemDesc(u, i)
		ne, err := Normalize(e, ed)
		if err != nil {
			return nil, err
		}
		elems[i] = ne
	}
	return pattern.NewTuple(p.Pos(), elems), nil
}

func elemDesc(u *descriptor.Desc, i int) *descriptor.Desc {
	switch u.Kind {
	case descriptor.KindTuple:
		if i < len(u.Elems) {
			return u.Elems[i]
		}
	case descriptor.KindSequence:
		return u.Elem
	}
	return &descriptor.Desc{Kind: descriptor.KindAny}
}

func normalizeSequence(p *pattern.Sequence, d *descriptor.Desc) (pattern.Node, error) {
	u := d.Unwrap()
	ed := &descriptor.Desc{Kind: descriptor.KindAny}
	if u.Kind == descriptor.KindSequence {
		ed = u.Elem
	}
	norm := func(elems []pattern.SeqElem) ([]pattern.SeqElem, error) {
		out := make([]pattern.SeqElem, len(elems))
		for i, e := range elems {
			ne, err := Normalize(e.Pattern, ed)
			if err != nil {
				return nil, err
			}
			out[i] = pattern.SeqElem{Pattern: ne, Default: e.Default}
		}
		return out, nil
	}
	prefix, err := norm(p.Prefix)
	if err != nil {
		return nil, err
	}
	suffix, err := norm(p.Suffix)
	if err != nil {
		return nil, err
	}
	return pattern.NewSequence(p.Pos(), prefix, p.Spread, suffix), nil
}

func normalizeMap(p *pattern.Map, d *descriptor.Desc) (pattern.Node, error) {
	u := d.Unwrap()
	vd := &descriptor.Desc{Kind: descriptor.KindAny}
	if u.Kind == descriptor.KindMap {
		vd = u.Value
	}
	entries := make([]pattern.MapEntry, len(p.Entries))
	for i, e := range p.Entries {
		nv, err := Normalize(e.Pattern, vd)
		if err != nil {
			return nil, err
		}
		entries[i] = pattern.MapEntry{Key: e.Key, Pattern: nv}
	}
	return pattern.NewMap(p.Pos(), entries, p.Rest, p.HasRest), nil
}

// normalizeRecord expands the named-tuple shorthand and resolves the
// implicit variant form Type(Case(args...)) using the descriptor's
// discriminator table.
func normalizeRecord(p *pattern.Record, d *descriptor.Desc) (pattern.Node, error) {
	u := resolveRecordDesc(p, d)

	if len(p.Positional) > 0 {
		return normalizeImplicitVariant(p, u)
	}

	fields := make([]pattern.Field, len(p.Fields))
	for i, f := range p.Fields {
		if f.Shorthand {
			fields[i] = pattern.Field{
				Name:    f.Name,
				Pattern: pattern.NewVariable(p.Pos(), f.Name),
			}
			continue
		}
		fd := &descriptor.Desc{Kind: descriptor.KindAny}
		if u.Kind == descriptor.KindRecord {
			if df := u.Field(f.Name); df != nil {
				fd = df.Type
			}
		}
		nf, err := Normalize(f.Pattern, fd)
		if err != nil {
			return nil, err
		}
		fields[i] = pattern.Field{Name: f.Name, Pattern: nf}
	}
	return pattern.NewRecord(p.Pos(), p.TypeName, fields), nil
}

// resolveRecordDesc finds the structural descriptor a record pattern is
// matched against: the unwrapped scrutinee descriptor, or a registered
// type when the position is any-typed.
func resolveRecordDesc(p *pattern.Record, d *descriptor.Desc) *descriptor.Desc {
	u := d.Unwrap()
	if u.Kind == descriptor.KindAny {
		if reg, ok := descriptor.Lookup(p.TypeName); ok {
			return reg.Unwrap()
		}
	}
	return u
}

func normalizeImplicitVariant(p *pattern.Record, u *descriptor.Desc) (pattern.Node, error) {
	if len(p.Positional) != 1 {
		return nil, matcherr.NewSemanticErrorf(
			"record pattern %s has %d positional arguments; record fields must be named (field: pattern) unless using the variant shorthand %s(Case(...))",
			p.TypeName, len(p.Positional), p.TypeName)
	}
	caseRec, ok := p.Positional[0].(*pattern.Record)
	if !ok {
		return nil, matcherr.NewSemanticErrorf(
			"record pattern %s takes named fields, e.g. %s(field: %s)",
			p.TypeName, p.TypeName, p.Positional[0])
	}
	if u.Kind != descriptor.KindRecord || u.Variant == nil {
		return nil, matcherr.NewSemanticErrorf(
			"type %s is not a variant; cannot use the implicit case shorthand %s(%s(...))",
			p.TypeName, p.TypeName, caseRec.TypeName)
	}
	c := u.Variant.Case(caseRec.TypeName)
	if c == nil {
		return nil, matcherr.NewSemanticErrorf(
			"type %s has no variant case %q (cases: %s)",
			p.TypeName, caseRec.TypeName, caseNames(u.Variant))
	}

	args := caseRec.Positional
	if len(args) == 0 {
		// The parser reads a bare name before `,` or `)` as a shorthand
		// field. Inside a case those names are positional arguments:
		// Circle(r) binds r to the case's first field, not to a field
		// named r.
		if pos, ok := bareArgs(caseRec); ok {
			args = pos
		}
	}
	if len(args) == 0 && len(caseRec.Fields) > 0 {
		// Named form inside the shorthand: Type(Case(field: p)).
		fields := []pattern.Field{discriminatorField(p, u, c)}
		for _, f := range caseRec.Fields {
			if f.Shorthand {
				fields = append(fields, pattern.Field{
					Name:    f.Name,
					Pattern: pattern.NewVariable(p.Pos(), f.Name),
				})
				continue
			}
			fd := fieldDesc(u, f.Name)
			nf, err := Normalize(f.Pattern, fd)
			if err != nil {
				return nil, err
			}
			fields = append(fields, pattern.Field{Name: f.Name, Pattern: nf})
		}
		return pattern.NewRecord(p.Pos(), p.TypeName, fields), nil
	}

	if len(args) != len(c.Fields) {
		return nil, matcherr.NewSemanticErrorf(
			"variant case %s of %s has %d field(s) but pattern has %d argument(s)",
			c.Name, p.TypeName, len(c.Fields), len(args))
	}

	fields := []pattern.Field{discriminatorField(p, u, c)}
	for i, arg := range args {
		name := c.Fields[i]
		na, err := Normalize(arg, fieldDesc(u, name))
		if err != nil {
			return nil, err
		}
		fields = append(fields, pattern.Field{Name: name, Pattern: na})
	}
	return pattern.NewRecord(p.Pos(), p.TypeName, fields), nil
}

// bareArgs converts an all-shorthand field list into positional
// variable arguments. A single named field keeps the list named.
func bareArgs(rec *pattern.Record) ([]pattern.Node, bool) {
	if len(rec.Fields) == 0 {
		return nil, false
	}
	for _, f := range rec.Fields {
		if !f.Shorthand {
			return nil, false
		}
	}
	args := make([]pattern.Node, len(rec.Fields))
	for i, f := range rec.Fields {
		args[i] = pattern.NewVariable(rec.Pos(), f.Name)
	}
	return args, true
}

func discriminatorField(p *pattern.Record, u *descriptor.Desc, c *descriptor.Case) pattern.Field {
	lit := pattern.NewLiteral(p.Pos())
	lit.Kind = pattern.LitString
	lit.Str = c.Name
	lit.Source = c.Name
	return pattern.Field{Name: u.Variant.Field, Pattern: lit}
}

func fieldDesc(u *descriptor.Desc, name string) *descriptor.Desc {
	if f := u.Field(name); f != nil {
		return f.Type
	}
	return &descriptor.Desc{Kind: descriptor.KindAny}
}

func caseNames(v *descriptor.Variant) string {
	out := ""
	for i, c := range v.Cases {
		if i > 0 {
			out += ", "
		}
		out += c.Name
	}
	return out
}
