// Package validator proves pattern/type compatibility before any
// matching occurs. A pattern that fails validation never reaches the
// matcher compiler; there is no best-effort matching.
package validator

import (
	"fmt"
	"strings"

	"github.com/matchc-lang/matchc/internal/descriptor"
	"github.com/matchc-lang/matchc/internal/pattern"
	"github.com/matchc-lang/matchc/matcherr"
)

// Validate checks a normalized pattern against the scrutinee
// descriptor. Rules apply recursively at every nesting depth.
func Validate(n pattern.Node, d *descriptor.Desc) error {
	return validate(n, d, false)
}

// ValidateArms enforces the wildcard-last rule over a whole match
// expression: no arm may follow a wildcard (or aliased wildcard) arm.
func ValidateArms(arms []pattern.Node) error {
	for i, arm := range arms {
		if pattern.IsWildcard(arm) && i != len(arms)-1 {
			return matcherr.NewSemanticErrorf(
				"wildcard arm %d makes arm %d unreachable; a wildcard must be the last arm", i+1, i+2)
		}
	}
	return nil
}

func validate(n pattern.Node, d *descriptor.Desc, inOr bool) error {
	switch p := n.(type) {
	case *pattern.Wildcard, *pattern.Variable:
		return nil

	case *pattern.Literal:
		return validateLiteral(p, d, inOr)

	case *pattern.Nil:
		u := d
		if u.Wrapped() || u.Kind == descriptor.KindAny {
			return nil
		}
		return matcherr.NewSemanticErrorf(
			"nil pattern cannot match %s scrutinee %s: the type is neither a reference nor optional",
			u.Kind, u)

	case *pattern.Alias:
		return validate(p.Inner, d, inOr)

	case *pattern.Guarded:
		return validate(p.Inner, d, inOr)

	case *pattern.Or:
		for _, alt := range p.Alternatives {
			if err := validate(alt, d, true); err != nil {
				return err
			}
		}
		return nil

	case *pattern.Tuple:
		return validateTuple(p, d, inOr)

	case *pattern.Record:
		return validateRecord(p, d, inOr)

	case *pattern.Sequence:
		return validateSequence(p, d, inOr)

	case *pattern.Map:
		return validateMap(p, d, inOr)

	case *pattern.SetLiteral:
		return validateSet(p, d)

	case *pattern.TypeTest:
		return validateTypeTest(p)
	}
	return matcherr.NewSemanticErrorf("unsupported pattern node %T", n)
}

// validateLiteral type-checks a literal against the descriptor's
// primitive kind. An incompatible literal inside an Or is tolerated:
// that alternative simply can never succeed at this position.
func validateLiteral(p *pattern.Literal, d *descriptor.Desc, inOr bool) error {
	u := d.Unwrap()
	if u.Kind == descriptor.KindAny {
		return nil
	}
	if u.Kind != descriptor.KindPrimitive {
		if inOr {
			return nil
		}
		return categoryError("literal", p.String(), u)
	}
	if literalCompatible(p.Kind, u.Prim) {
		return nil
	}
	if inOr {
		return nil
	}
	return matcherr.NewSemanticErrorf(
		"literal %s (%s) cannot match %s scrutinee", p, p.Kind, u.Prim)
}

func literalCompatible(lk pattern.LiteralKind, pk descriptor.PrimitiveKind) bool {
	switch lk {
	case pattern.LitBool:
		return pk == descriptor.PrimBool
	case pattern.LitInt, pattern.LitChar:
		return pk == descriptor.PrimInt || pk == descriptor.PrimUint || pk == descriptor.PrimFloat
	case pattern.LitFloat:
		return pk == descriptor.PrimFloat
	case pattern.LitString:
		return pk == descriptor.PrimString
	}
	return false
}

func validateTuple(p *pattern.Tuple, d *descriptor.Desc, inOr bool) error {
	u := d.Unwrap()
	switch u.Kind {
	case descriptor.KindAny:
		for _, e := range p.Elements {
			if err := validate(e, u, inOr); err != nil {
				return err
			}
		}
		return nil
	case descriptor.KindTuple:
		if len(p.Elements) != len(u.Elems) {
			return arityError("tuple", len(p.Elements), len(u.Elems), u)
		}
		for i, e := range p.Elements {
			if err := validate(e, u.Elems[i], inOr); err != nil {
				return err
			}
		}
		return nil
	case descriptor.KindSequence:
		if !u.HasFixedLen {
			return matcherr.NewSemanticErrorf(
				"tuple pattern cannot match variable-length sequence %s; use a sequence pattern [p1, p2, ...]", u)
		}
		if len(p.Elements) != u.FixedLen {
			return arityError("tuple", len(p.Elements), u.FixedLen, u)
		}
		for _, e := range p.Elements {
			if err := validate(e, u.Elem, inOr); err != nil {
				return err
			}
		}
		return nil
	default:
		return categoryError("tuple", p.String(), u)
	}
}

func validateRecord(p *pattern.Record, d *descriptor.Desc, inOr bool) error {
	if len(p.Positional) > 0 {
		// The normalizer resolves or rejects positional record forms;
		// reaching here means it was skipped.
		return matcherr.NewSemanticErrorf("record pattern %s was not normalized", p.TypeName)
	}

	u := d.Unwrap()
	if u.Kind == descriptor.KindAny {
		if reg, ok := descriptor.Lookup(p.TypeName); ok {
			u = reg.Unwrap()
		} else {
			// Unregistered type against an any-typed position: defer
			// the structural check to runtime.
			for _, f := range p.Fields {
				if f.Shorthand {
					continue
				}
				if err := validate(f.Pattern, &descriptor.Desc{Kind: descriptor.KindAny}, inOr); err != nil {
					return err
				}
			}
			return nil
		}
	}
	if u.Kind != descriptor.KindRecord {
		return categoryError("record", p.String(), u)
	}
	if u.Name != "" && p.TypeName != u.Name {
		return matcherr.NewSemanticErrorf(
			"pattern names type %s but the scrutinee is %s", p.TypeName, u.Name)
	}

	for _, f := range p.Fields {
		df := u.Field(f.Name)
		if df == nil {
			return unknownFieldError(u, f.Name)
		}
		fp := f.Pattern
		if f.Shorthand {
			continue
		}
		if err := validate(fp, df.Type, inOr); err != nil {
			return err
		}
	}
	return nil
}

func validateSequence(p *pattern.Sequence, d *descriptor.Desc, inOr bool) error {
	u := d.Unwrap()
	if u.Kind == descriptor.KindAny {
		return validateSeqElems(p, u, inOr)
	}
	if u.Kind != descriptor.KindSequence {
		return categoryError("sequence", p.String(), u)
	}

	if u.HasFixedLen {
		if p.Spread == nil {
			if got := len(p.Prefix); got != u.FixedLen {
				return arityError("sequence", got, u.FixedLen, u)
			}
		} else if req := requiredPositions(p); req > u.FixedLen {
			return matcherr.NewSemanticErrorf(
				"spread collision: pattern requires at least %d element(s) without defaults but %s has fixed length %d",
				req, u, u.FixedLen)
		}
	}
	return validateSeqElems(p, u, inOr)
}

// requiredPositions counts explicit positions without default values;
// defaulted positions are exempt from the collision check.
func requiredPositions(p *pattern.Sequence) int {
	req := 0
	for _, e := range p.Prefix {
		if e.Default == nil {
			req++
		}
	}
	for _, e := range p.Suffix {
		if e.Default == nil {
			req++
		}
	}
	return req
}

func validateSeqElems(p *pattern.Sequence, u *descriptor.Desc, inOr bool) error {
	ed := &descriptor.Desc{Kind: descriptor.KindAny}
	if u.Kind == descriptor.KindSequence {
		ed = u.Elem
	}
	for _, e := range append(append([]pattern.SeqElem{}, p.Prefix...), p.Suffix...) {
		if err := validate(e.Pattern, ed, inOr); err != nil {
			return err
		}
		if e.Default != nil {
			if err := validateLiteral(e.Default, ed, false); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateMap(p *pattern.Map, d *descriptor.Desc, inOr bool) error {
	u := d.Unwrap()
	if u.Kind == descriptor.KindAny {
		for _, e := range p.Entries {
			if err := validate(e.Pattern, u, inOr); err != nil {
				return err
			}
		}
		return nil
	}
	if u.Kind != descriptor.KindMap {
		return categoryError("map", p.String(), u)
	}
	seen := map[string]bool{}
	for _, e := range p.Entries {
		if err := validateLiteral(e.Key, u.Key, false); err != nil {
			return err
		}
		key := e.Key.String()
		if seen[key] {
			return matcherr.NewSemanticErrorf("duplicate map pattern key %s", key)
		}
		seen[key] = true
		if err := validate(e.Pattern, u.Value, inOr); err != nil {
			return err
		}
	}
	return nil
}

func validateSet(p *pattern.SetLiteral, d *descriptor.Desc) error {
	u := d.Unwrap()
	if u.Kind == descriptor.KindAny {
		return nil
	}
	if u.Kind != descriptor.KindSet {
		return categoryError("set", p.String(), u)
	}
	for _, e := range p.Elements {
		if err := validateLiteral(e, u.Elem, false); err != nil {
			return err
		}
	}
	return nil
}

var primitiveTypeNames = map[string]bool{
	"bool": true, "int": true, "uint": true, "float": true, "string": true, "char": true,
}

func validateTypeTest(p *pattern.TypeTest) error {
	if primitiveTypeNames[p.TypeName] {
		return nil
	}
	if _, ok := descriptor.Lookup(p.TypeName); ok {
		return nil
	}
	return matcherr.NewSemanticErrorf(
		"unknown type %q in typed pattern %s; primitive names are bool, int, uint, float, string, char, and other types must be registered",
		p.TypeName, p)
}

// categoryError reports a pattern/descriptor category mismatch and,
// where known, suggests the matching syntax for the scrutinee.
func categoryError(patCategory, patText string, u *descriptor.Desc) error {
	msg := fmt.Sprintf("%s pattern %s cannot match %s scrutinee %s", patCategory, patText, u.Kind, u)
	if hint := syntaxHint(u); hint != "" {
		msg += "; " + hint
	}
	return matcherr.NewSemanticError(msg)
}

func syntaxHint(u *descriptor.Desc) string {
	switch u.Kind {
	case descriptor.KindRecord:
		name := u.Name
		if name == "" {
			name = "Type"
		}
		fields := u.FieldNames()
		if len(fields) > 0 {
			return fmt.Sprintf("match %s with %s(%s: ...)", name, name, fields[0])
		}
		return fmt.Sprintf("match %s with %s(...)", name, name)
	case descriptor.KindTuple:
		return fmt.Sprintf("match it with a tuple pattern of %d elements (p1, p2, ...)", len(u.Elems))
	case descriptor.KindSequence:
		return "match it with a sequence pattern [p1, p2, ...]"
	case descriptor.KindMap:
		return `match it with a map pattern {"key": p, **rest}`
	case descriptor.KindSet:
		return "match it with a set literal {a, b} or bind it with a name"
	}
	return ""
}

// arityError reports an exact-arity mismatch with the signed delta.
func arityError(patCategory string, got, want int, u *descriptor.Desc) error {
	diff := got - want
	var fix string
	if diff > 0 {
		fix = fmt.Sprintf("remove %d element(s)", diff)
	} else {
		fix = fmt.Sprintf("add %d element(s)", -diff)
	}
	return matcherr.NewSemanticErrorf(
		"%s pattern has %d element(s) but %s has exactly %d: %s",
		patCategory, got, u, want, fix)
}

func unknownFieldError(u *descriptor.Desc, name string) error {
	available := u.FieldNames()
	msg := fmt.Sprintf("type %s has no field %q (fields: %s)",
		u.Name, name, strings.Join(available, ", "))
	if hit := nearest(name, available); hit != "" {
		msg += fmt.Sprintf("; did you mean %q?", hit)
	}
	return matcherr.NewSemanticError(msg)
}
