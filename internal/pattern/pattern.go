// Package pattern defines the normalized pattern tree produced by the
// parser and consumed by the validator and the matcher compiler.
package pattern

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Pos is a source position inside the pattern text.
type Pos struct {
	Line   int
	Column int
}

// Node is implemented by every pattern tree node.
type Node interface {
	Pos() Pos
	String() string
	node()
}

// LiteralKind classifies literal nodes. Every surface spelling of a
// literal (hex/octal/binary ints, raw strings, escapes) normalizes to one
// of these kinds; no spelling is dropped.
type LiteralKind int

const (
	LitBool LiteralKind = iota
	LitInt
	LitFloat
	LitChar
	LitString
)

func (k LiteralKind) String() string {
	switch k {
	case LitBool:
		return "bool"
	case LitInt:
		return "int"
	case LitFloat:
		return "float"
	case LitChar:
		return "char"
	case LitString:
		return "string"
	}
	return "unknown"
}

type base struct {
	At Pos
}

func (b base) Pos() Pos { return b.At }
func (b base) node()    {}

// Literal matches by equality against the scrutinee.
type Literal struct {
	base
	Kind LiteralKind
	// Exactly one of the following carries the value, per Kind.
	Bool   bool
	Int    int64
	Float  float64
	Char   rune
	Str    string
	Source string // original spelling, kept for diagnostics
}

// Wildcard always matches and binds nothing.
type Wildcard struct {
	base
}

// Variable always matches and binds the whole value to Name.
type Variable struct {
	base
	Name string
}

// Alias matches Inner and additionally binds the whole matched value to
// Name. Inner's own bindings remain visible.
type Alias struct {
	base
	Inner Node
	Name  string
}

// Or tries Alternatives in order and succeeds on the first that matches.
type Or struct {
	base
	Alternatives []Node
}

// Guarded wraps Inner with textual guard expressions evaluated by the
// host's expression evaluator. Conditions are conjunctive.
type Guarded struct {
	base
	Inner      Node
	Conditions []string
}

// Tuple matches a fixed-arity product positionally.
type Tuple struct {
	base
	Elements []Node
}

// Field is one named sub-pattern of a record pattern.
type Field struct {
	Name    string
	Pattern Node
	// Shorthand marks a bare-identifier field (named-tuple shorthand)
	// before the normalizer expands it to Name: Variable(Name).
	Shorthand bool
}

// Record matches a named record type field-by-field. Positional holds
// unresolved positional arguments as parsed; the only legal use is the
// implicit variant shorthand Type(Case(...)), which the normalizer
// rewrites into a discriminator literal plus case field bindings.
type Record struct {
	base
	TypeName   string
	Fields     []Field
	Positional []Node
}

// SeqElem is one explicit position of a sequence pattern. A position may
// declare a default literal, which exempts it from the spread collision
// check.
type SeqElem struct {
	Pattern Node
	Default *Literal
}

// Sequence matches a sequence with an optional spread capture between a
// fixed prefix and a fixed suffix.
type Sequence struct {
	base
	Prefix []SeqElem
	Spread *Spread
	Suffix []SeqElem
}

// Spread is the *name capture of a sequence pattern. An anonymous spread
// (*_) has Name "".
type Spread struct {
	Name string
}

// MapEntry is one literal-keyed entry of a map pattern.
type MapEntry struct {
	Key     *Literal
	Pattern Node
}

// Map matches literal-keyed entries and optionally binds the unconsumed
// remainder to Rest.
type Map struct {
	base
	Entries []MapEntry
	Rest    string // "" when absent
	HasRest bool
}

// SetLiteral matches set-typed scrutinees by equality. Against a non-set
// scrutinee the normalizer rewrites it to an Or of literals.
type SetLiteral struct {
	base
	Elements []*Literal
}

// Nil matches an absent reference or optional value.
type Nil struct {
	base
}

// TypeTest succeeds when the scrutinee's category matches TypeName and
// binds the value to Name.
type TypeTest struct {
	base
	Name     string
	TypeName string
}

// New helpers keep positions explicit at construction sites.

func At(line, column int) Pos { return Pos{Line: line, Column: column} }

func NewLiteral(p Pos) *Literal   { return &Literal{base: base{At: p}} }
func NewWildcard(p Pos) *Wildcard { return &Wildcard{base: base{At: p}} }
func NewNil(p Pos) *Nil           { return &Nil{base: base{At: p}} }
func NewVariable(p Pos, name string) *Variable {
	return &Variable{base: base{At: p}, Name: name}
}
func NewAlias(p Pos, inner Node, name string) *Alias {
	return &Alias{base: base{At: p}, Inner: inner, Name: name}
}
func NewOr(p Pos, alts []Node) *Or { return &Or{base: base{At: p}, Alternatives: alts} }
func NewGuarded(p Pos, inner Node, conds []string) *Guarded {
	return &Guarded{base: base{At: p}, Inner: inner, Conditions: conds}
}
func NewTuple(p Pos, elems []Node) *Tuple { return &Tuple{base: base{At: p}, Elements: elems} }
func NewRecord(p Pos, typeName string, fields []Field) *Record {
	return &Record{base: base{At: p}, TypeName: typeName, Fields: fields}
}
func NewSequence(p Pos, prefix []SeqElem, spread *Spread, suffix []SeqElem) *Sequence {
	return &Sequence{base: base{At: p}, Prefix: prefix, Spread: spread, Suffix: suffix}
}
func NewMap(p Pos, entries []MapEntry, rest string, hasRest bool) *Map {
	return &Map{base: base{At: p}, Entries: entries, Rest: rest, HasRest: hasRest}
}
func NewSetLiteral(p Pos, elems []*Literal) *SetLiteral {
	return &SetLiteral{base: base{At: p}, Elements: elems}
}
func NewTypeTest(p Pos, name, typeName string) *TypeTest {
	return &TypeTest{base: base{At: p}, Name: name, TypeName: typeName}
}

func (l *Literal) String() string {
	switch l.Kind {
	case LitBool:
		return strconv.FormatBool(l.Bool)
	case LitInt:
		return strconv.FormatInt(l.Int, 10)
	case LitFloat:
		return strconv.FormatFloat(l.Float, 'g', -1, 64)
	case LitChar:
		return strconv.QuoteRune(l.Char)
	case LitString:
		return strconv.Quote(l.Str)
	}
	return "<invalid literal>"
}

func (*Wildcard) String() string   { return "_" }
func (*Nil) String() string        { return "nil" }
func (v *Variable) String() string { return v.Name }

func (a *Alias) String() string {
	return fmt.Sprintf("%s @ %s", a.Inner, a.Name)
}

func (o *Or) String() string {
	parts := make([]string, len(o.Alternatives))
	for i, alt := range o.Alternatives {
		parts[i] = alt.String()
	}
	return strings.Join(parts, " | ")
}

func (g *Guarded) String() string {
	var sb strings.Builder
	sb.WriteString(g.Inner.String())
	for _, c := range g.Conditions {
		sb.WriteString(" and ")
		sb.WriteString(c)
	}
	return sb.String()
}

func (t *Tuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (r *Record) String() string {
	if len(r.Positional) > 0 {
		parts := make([]string, len(r.Positional))
		for i, a := range r.Positional {
			parts[i] = a.String()
		}
		return fmt.Sprintf("%s(%s)", r.TypeName, strings.Join(parts, ", "))
	}
	parts := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		if f.Shorthand {
			parts[i] = f.Name
		} else {
			parts[i] = fmt.Sprintf("%s: %s", f.Name, f.Pattern)
		}
	}
	return fmt.Sprintf("%s(%s)", r.TypeName, strings.Join(parts, ", "))
}

func (s *Sequence) String() string {
	var parts []string
	for _, e := range s.Prefix {
		parts = append(parts, seqElemString(e))
	}
	if s.Spread != nil {
		name := s.Spread.Name
		if name == "" {
			name = "_"
		}
		parts = append(parts, "*"+name)
	}
	for _, e := range s.Suffix {
		parts = append(parts, seqElemString(e))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func seqElemString(e SeqElem) string {
	if e.Default != nil {
		return fmt.Sprintf("%s = %s", e.Pattern, e.Default)
	}
	return e.Pattern.String()
}

func (m *Map) String() string {
	var parts []string
	for _, e := range m.Entries {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Key, e.Pattern))
	}
	if m.HasRest {
		name := m.Rest
		if name == "" {
			name = "_"
		}
		parts = append(parts, "**"+name)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (s *SetLiteral) String() string {
	parts := make([]string, len(s.Elements))
	for i, e := range s.Elements {
		parts[i] = e.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (t *TypeTest) String() string {
	return fmt.Sprintf("%s: %s", t.Name, t.TypeName)
}

// Names returns the sorted set of binding names a node introduces,
// counting Or alternatives once (they are required to agree).
func Names(n Node) []string {
	set := map[string]struct{}{}
	collectNames(n, set)
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func collectNames(n Node, set map[string]struct{}) {
	switch p := n.(type) {
	case *Variable:
		set[p.Name] = struct{}{}
	case *Alias:
		set[p.Name] = struct{}{}
		collectNames(p.Inner, set)
	case *Or:
		// Alternatives bind identical sets; the first stands for all.
		if len(p.Alternatives) > 0 {
			collectNames(p.Alternatives[0], set)
		}
	case *Guarded:
		collectNames(p.Inner, set)
	case *Tuple:
		for _, e := range p.Elements {
			collectNames(e, set)
		}
	case *Record:
		for _, a := range p.Positional {
			collectNames(a, set)
		}
		for _, f := range p.Fields {
			if f.Shorthand {
				set[f.Name] = struct{}{}
				continue
			}
			collectNames(f.Pattern, set)
		}
	case *Sequence:
		for _, e := range p.Prefix {
			collectNames(e.Pattern, set)
		}
		if p.Spread != nil && p.Spread.Name != "" {
			set[p.Spread.Name] = struct{}{}
		}
		for _, e := range p.Suffix {
			collectNames(e.Pattern, set)
		}
	case *Map:
		for _, e := range p.Entries {
			collectNames(e.Pattern, set)
		}
		if p.HasRest && p.Rest != "" {
			set[p.Rest] = struct{}{}
		}
	case *TypeTest:
		set[p.Name] = struct{}{}
	}
}

// IsWildcard reports whether n matches anything unconditionally: a bare
// wildcard or a wildcard under an alias. Used by the wildcard-last rule.
func IsWildcard(n Node) bool {
	switch p := n.(type) {
	case *Wildcard:
		return true
	case *Alias:
		return IsWildcard(p.Inner)
	}
	return false
}
