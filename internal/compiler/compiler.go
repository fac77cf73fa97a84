// Package compiler turns a validated pattern tree into an executable
// matcher: a closure tree where every node is a pure structural test
// plus zero or more bindings, composed bottom-up.
package compiler

import (
	"reflect"

	"github.com/matchc-lang/matchc/internal/descriptor"
	"github.com/matchc-lang/matchc/internal/pattern"
	"github.com/matchc-lang/matchc/matcherr"
)

// Env is the binding environment of one match attempt. It is populated
// incrementally while tests succeed and discarded by the dispatcher when
// the owning arm fails, so partial bindings never escape.
type Env = map[string]any

// GuardEvaluator evaluates a textual guard expression against the
// bindings accumulated so far. It is owned by the host; patterns with
// textual guards cannot compile without one.
type GuardEvaluator interface {
	EvalGuard(expr string, env Env) (bool, error)
}

// Options configure matcher compilation.
type Options struct {
	Evaluator GuardEvaluator
}

// Matcher tests a value and, on success, writes its bindings into env.
// The only error it can surface is a guard evaluation failure.
type Matcher func(v reflect.Value, env Env) (bool, error)

// Compile emits the matcher for a normalized, validated pattern. It
// never fails for a pattern that passed validation, except when a
// textual guard is present and no evaluator was supplied.
func Compile(n pattern.Node, d *descriptor.Desc, opts Options) (Matcher, error) {
	switch p := n.(type) {
	case *pattern.Wildcard:
		return func(reflect.Value, Env) (bool, error) { return true, nil }, nil

	case *pattern.Variable:
		name := p.Name
		// A bare name binds the reference itself, not its pointee.
		return func(v reflect.Value, env Env) (bool, error) {
			env[name] = iface(v)
			return true, nil
		}, nil

	case *pattern.Nil:
		return func(v reflect.Value, env Env) (bool, error) {
			_, present := settle(v)
			return !present, nil
		}, nil

	case *pattern.Literal:
		return compileLiteral(p), nil

	case *pattern.Alias:
		inner, err := Compile(p.Inner, d, opts)
		if err != nil {
			return nil, err
		}
		name := p.Name
		return func(v reflect.Value, env Env) (bool, error) {
			ok, err := inner(v, env)
			if !ok || err != nil {
				return false, err
			}
			env[name] = iface(v)
			return true, nil
		}, nil

	case *pattern.Guarded:
		return compileGuarded(p, d, opts)

	case *pattern.Or:
		return compileOr(p, d, opts)

	case *pattern.Tuple:
		return compileTuple(p, d, opts)

	case *pattern.Record:
		return compileRecord(p, d, opts)

	case *pattern.Sequence:
		return compileSequence(p, d, opts)

	case *pattern.Map:
		return compileMap(p, d, opts)

	case *pattern.SetLiteral:
		return compileSet(p), nil

	case *pattern.TypeTest:
		return compileTypeTest(p), nil
	}
	return nil, matcherr.NewSemanticErrorf("cannot compile pattern node %T", n)
}

func compileLiteral(p *pattern.Literal) Matcher {
	return func(v reflect.Value, env Env) (bool, error) {
		sv, present := settle(v)
		if !present {
			return false, nil
		}
		return literalMatches(p, sv), nil
	}
}

func compileGuarded(p *pattern.Guarded, d *descriptor.Desc, opts Options) (Matcher, error) {
	if len(p.Conditions) > 0 && opts.Evaluator == nil {
		return nil, matcherr.NewSemanticErrorIn(p.String(),
			"pattern has a textual guard but no guard evaluator is configured")
	}
	inner, err := Compile(p.Inner, d, opts)
	if err != nil {
		return nil, err
	}
	conds := p.Conditions
	eval := opts.Evaluator
	return func(v reflect.Value, env Env) (bool, error) {
		ok, err := inner(v, env)
		if !ok || err != nil {
			return false, err
		}
		for _, c := range conds {
			ok, err := eval.EvalGuard(c, env)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	}, nil
}

func compileOr(p *pattern.Or, d *descriptor.Desc, opts Options) (Matcher, error) {
	alts := make([]Matcher, len(p.Alternatives))
	for i, alt := range p.Alternatives {
		m, err := Compile(alt, d, opts)
		if err != nil {
			return nil, err
		}
		alts[i] = m
	}
	// Alternatives bind identical name sets, so the winning alternative
	// overwrites anything a failed earlier alternative wrote.
	return func(v reflect.Value, env Env) (bool, error) {
		for _, m := range alts {
			ok, err := m(v, env)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	}, nil
}

func compileTuple(p *pattern.Tuple, d *descriptor.Desc, opts Options) (Matcher, error) {
	u := d.Unwrap()
	elems := make([]Matcher, len(p.Elements))
	for i, e := range p.Elements {
		m, err := Compile(e, tupleElemDesc(u, i), opts)
		if err != nil {
			return nil, err
		}
		elems[i] = m
	}
	arity := len(p.Elements)
	return func(v reflect.Value, env Env) (bool, error) {
		sv, present := settle(v)
		if !present {
			return false, nil
		}
		switch sv.Kind() {
		case reflect.Struct:
			td := descriptor.Build(sv.Type())
			if td.Kind != descriptor.KindTuple || len(td.Elems) != arity {
				return false, nil
			}
			for i, m := range elems {
				ok, err := m(sv.Field(i), env)
				if !ok || err != nil {
					return false, err
				}
			}
			return true, nil
		case reflect.Slice, reflect.Array:
			if sv.Len() != arity {
				return false, nil
			}
			for i, m := range elems {
				ok, err := m(sv.Index(i), env)
				if !ok || err != nil {
					return false, err
				}
			}
			return true, nil
		}
		return false, nil
	}, nil
}

func tupleElemDesc(u *descriptor.Desc, i int) *descriptor.Desc {
	switch u.Kind {
	case descriptor.KindTuple:
		if i < len(u.Elems) {
			return u.Elems[i]
		}
	case descriptor.KindSequence:
		return u.Elem
	}
	return anyDesc()
}

// compileRecord emits field tests in pattern order. The normalizer puts
// the discriminator literal first for variant shorthand, so the
// discriminator is always tested before case fields. The absence test
// in settle unconditionally precedes any field access.
func compileRecord(p *pattern.Record, d *descriptor.Desc, opts Options) (Matcher, error) {
	u := recordDesc(p, d)

	type fieldMatcher struct {
		name string
		m    Matcher
	}
	fields := make([]fieldMatcher, 0, len(p.Fields))
	for _, f := range p.Fields {
		fp := f.Pattern
		if f.Shorthand {
			fp = pattern.NewVariable(p.Pos(), f.Name)
		}
		m, err := Compile(fp, recordFieldDesc(u, f.Name), opts)
		if err != nil {
			return nil, err
		}
		fields = append(fields, fieldMatcher{name: f.Name, m: m})
	}

	typeName := p.TypeName
	return func(v reflect.Value, env Env) (bool, error) {
		sv, present := settle(v)
		if !present || sv.Kind() != reflect.Struct {
			return false, nil
		}
		rd := descriptor.Build(sv.Type())
		if rd.Kind != descriptor.KindRecord {
			return false, nil
		}
		if rd.Name != "" && rd.Name != typeName {
			return false, nil
		}
		for _, f := range fields {
			df := rd.Field(f.name)
			if df == nil {
				return false, nil
			}
			ok, err := f.m(sv.Field(df.Index), env)
			if !ok || err != nil {
				return false, err
			}
		}
		return true, nil
	}, nil
}

func recordDesc(p *pattern.Record, d *descriptor.Desc) *descriptor.Desc {
	u := d.Unwrap()
	if u.Kind == descriptor.KindAny {
		if reg, ok := descriptor.Lookup(p.TypeName); ok {
			return reg.Unwrap()
		}
	}
	return u
}

func recordFieldDesc(u *descriptor.Desc, name string) *descriptor.Desc {
	if u.Kind == descriptor.KindRecord {
		if f := u.Field(name); f != nil {
			return f.Type
		}
	}
	return anyDesc()
}

func compileMap(p *pattern.Map, d *descriptor.Desc, opts Options) (Matcher, error) {
	u := d.Unwrap()
	vd := anyDesc()
	if u.Kind == descriptor.KindMap {
		vd = u.Value
	}

	type entryMatcher struct {
		key *pattern.Literal
		m   Matcher
	}
	entries := make([]entryMatcher, len(p.Entries))
	for i, e := range p.Entries {
		m, err := Compile(e.Pattern, vd, opts)
		if err != nil {
			return nil, err
		}
		entries[i] = entryMatcher{key: e.Key, m: m}
	}

	rest, hasRest := p.Rest, p.HasRest
	return func(v reflect.Value, env Env) (bool, error) {
		sv, present := settle(v)
		if !present || sv.Kind() != reflect.Map {
			return false, nil
		}
		consumed := make([]reflect.Value, 0, len(entries))
		for _, e := range entries {
			key := literalValue(e.key, sv.Type().Key())
			if !key.Type().AssignableTo(sv.Type().Key()) {
				return false, nil
			}
			mv := sv.MapIndex(key)
			if !mv.IsValid() {
				return false, nil
			}
			ok, err := e.m(mv, env)
			if !ok || err != nil {
				return false, err
			}
			consumed = append(consumed, key)
		}
		if hasRest && rest != "" {
			out := reflect.MakeMap(sv.Type())
			iter := sv.MapRange()
		next:
			for iter.Next() {
				for _, k := range consumed {
					if iter.Key().Interface() == k.Interface() {
						continue next
					}
				}
				out.SetMapIndex(iter.Key(), iter.Value())
			}
			env[rest] = out.Interface()
		}
		return true, nil
	}, nil
}

// compileSet emits the whole-set equality test: the scrutinee set must
// contain exactly the listed elements.
func compileSet(p *pattern.SetLiteral) Matcher {
	elems := p.Elements
	return func(v reflect.Value, env Env) (bool, error) {
		sv, present := settle(v)
		if !present || sv.Kind() != reflect.Map {
			return false, nil
		}
		if sv.Len() != len(elems) {
			return false, nil
		}
		for _, e := range elems {
			key := literalValue(e, sv.Type().Key())
			if !key.Type().AssignableTo(sv.Type().Key()) {
				return false, nil
			}
			mv := sv.MapIndex(key)
			if !mv.IsValid() {
				return false, nil
			}
			if mv.Kind() == reflect.Bool && !mv.Bool() {
				return false, nil
			}
		}
		return true, nil
	}
}

func compileTypeTest(p *pattern.TypeTest) Matcher {
	name, typeName := p.Name, p.TypeName
	return func(v reflect.Value, env Env) (bool, error) {
		sv, present := settle(v)
		if !present {
			return false, nil
		}
		if !categoryMatches(typeName, sv) {
			return false, nil
		}
		env[name] = iface(v)
		return true, nil
	}
}

func categoryMatches(typeName string, sv reflect.Value) bool {
	switch typeName {
	case "bool":
		return sv.Kind() == reflect.Bool
	case "int", "char":
		return isIntKind(sv.Kind())
	case "uint":
		return isUintKind(sv.Kind())
	case "float":
		return isFloatKind(sv.Kind())
	case "string":
		return sv.Kind() == reflect.String
	}
	rd := descriptor.Build(sv.Type())
	return rd.Name == typeName
}

func anyDesc() *descriptor.Desc {
	return &descriptor.Desc{Kind: descriptor.KindAny}
}
