// Package descriptor builds immutable structural descriptors of host
// types. Descriptors are built once per distinct type, cached, and shared
// read-only by the validator and the matcher compiler.
package descriptor

import (
	"fmt"
	"strings"
)

// Kind is the structural category of a descriptor.
type Kind int

const (
	KindPrimitive Kind = iota
	KindTuple
	KindRecord
	KindSequence
	KindMap
	KindSet
	KindOptional
	KindReference
	KindAny
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindTuple:
		return "tuple"
	case KindRecord:
		return "record"
	case KindSequence:
		return "sequence"
	case KindMap:
		return "map"
	case KindSet:
		return "set"
	case KindOptional:
		return "optional"
	case KindReference:
		return "reference"
	case KindAny:
		return "any"
	}
	return "unknown"
}

// PrimitiveKind classifies primitive descriptors. The whole integer
// family (any width, any signedness, including runes) is one kind.
type PrimitiveKind int

const (
	PrimBool PrimitiveKind = iota
	PrimInt
	PrimUint
	PrimFloat
	PrimString
)

func (p PrimitiveKind) String() string {
	switch p {
	case PrimBool:
		return "bool"
	case PrimInt:
		return "int"
	case PrimUint:
		return "uint"
	case PrimFloat:
		return "float"
	case PrimString:
		return "string"
	}
	return "unknown"
}

// Field describes one record field. Case is non-empty when the field
// belongs exclusively to one variant case.
type Field struct {
	Name  string
	Type  *Desc
	Case  string
	Index int // reflect struct field index; -1 for spec-loaded descriptors
}

// Case is one case of a variant record: its name and the ordered set of
// fields exclusive to it.
type Case struct {
	Name   string
	Fields []string
}

// Variant is the discriminator table of a variant record.
type Variant struct {
	Field string
	Cases []Case
}

// Case returns the case with the given name, or nil.
func (v *Variant) Case(name string) *Case {
	for i := range v.Cases {
		if v.Cases[i].Name == name {
			return &v.Cases[i]
		}
	}
	return nil
}

// Desc is an immutable structural descriptor of a host type.
type Desc struct {
	Kind Kind
	Name string // type name for records and named types, "" otherwise

	Prim PrimitiveKind // KindPrimitive

	Elems []*Desc // KindTuple element types

	Fields  []Field  // KindRecord
	Variant *Variant // KindRecord, nil unless the record is a variant

	Elem        *Desc // KindSequence and KindSet element type
	FixedLen    int   // KindSequence, valid when HasFixedLen
	HasFixedLen bool

	Key   *Desc // KindMap
	Value *Desc // KindMap

	Inner   *Desc // KindOptional and KindReference
	Nilable bool  // KindReference
}

// Field returns the record field with the given name, or nil.
func (d *Desc) Field(name string) *Field {
	for i := range d.Fields {
		if d.Fields[i].Name == name {
			return &d.Fields[i]
		}
	}
	return nil
}

// FieldNames returns the record's field names in declaration order.
func (d *Desc) FieldNames() []string {
	names := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		names[i] = f.Name
	}
	return names
}

// Unwrap strips reference and optional wrapping, returning the innermost
// descriptor. Matching always nil-checks before crossing a wrapper.
func (d *Desc) Unwrap() *Desc {
	for d.Kind == KindReference || d.Kind == KindOptional {
		d = d.Inner
	}
	return d
}

// Wrapped reports whether the descriptor is reference- or
// optional-wrapped, i.e. whether its value may be absent.
func (d *Desc) Wrapped() bool {
	return d.Kind == KindReference || d.Kind == KindOptional
}

func (d *Desc) String() string {
	switch d.Kind {
	case KindPrimitive:
		return d.Prim.String()
	case KindTuple:
		parts := make([]string, len(d.Elems))
		for i, e := range d.Elems {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KindRecord:
		if d.Name != "" {
			return d.Name
		}
		return "record"
	case KindSequence:
		if d.HasFixedLen {
			return fmt.Sprintf("[%d]%s", d.FixedLen, d.Elem)
		}
		return "[]" + d.Elem.String()
	case KindMap:
		return fmt.Sprintf("map[%s]%s", d.Key, d.Value)
	case KindSet:
		return fmt.Sprintf("set[%s]", d.Elem)
	case KindOptional:
		return fmt.Sprintf("Option[%s]", d.Inner)
	case KindReference:
		return "*" + d.Inner.String()
	case KindAny:
		return "any"
	}
	return "unknown"
}
