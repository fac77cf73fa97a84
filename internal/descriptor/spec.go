package descriptor

import (
	"encoding/json"
	"fmt"
)

// typeSpec is the JSON form of a descriptor, consumed by the matchc CLI
// so patterns can be checked outside a Go process.
type typeSpec struct {
	Kind    string      `json:"kind"`
	Name    string      `json:"name,omitempty"`
	Fields  []fieldSpec `json:"fields,omitempty"`
	Variant *varSpec    `json:"variant,omitempty"`
	Elems   []*typeSpec `json:"elems,omitempty"`
	Elem    *typeSpec   `json:"elem,omitempty"`
	Key     *typeSpec   `json:"key,omitempty"`
	Value   *typeSpec   `json:"value,omitempty"`
	Inner   *typeSpec   `json:"inner,omitempty"`
	Len     *int        `json:"len,omitempty"`
	Nilable bool        `json:"nilable,omitempty"`
}

type fieldSpec struct {
	Name string    `json:"name"`
	Type *typeSpec `json:"type"`
	Case string    `json:"case,omitempty"`
}

type varSpec struct {
	Field string     `json:"field"`
	Cases []caseSpec `json:"cases"`
}

type caseSpec struct {
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
}

// FromSpec parses a JSON type spec into a descriptor.
func FromSpec(data []byte) (*Desc, error) {
	var spec typeSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("invalid type spec: %w", err)
	}
	return spec.toDesc()
}

func (s *typeSpec) toDesc() (*Desc, error) {
	if s == nil {
		return nil, fmt.Errorf("missing type spec")
	}
	d := &Desc{Name: s.Name}
	switch s.Kind {
	case "bool", "int", "uint", "float", "string":
		d.Kind = KindPrimitive
		d.Prim = map[string]PrimitiveKind{
			"bool": PrimBool, "int": PrimInt, "uint": PrimUint,
			"float": PrimFloat, "string": PrimString,
		}[s.Kind]
	case "tuple":
		d.Kind = KindTuple
		if len(s.Elems) < 2 {
			return nil, fmt.Errorf("tuple spec needs at least 2 elems")
		}
		for _, e := range s.Elems {
			ed, err := e.toDesc()
			if err != nil {
				return nil, err
			}
			d.Elems = append(d.Elems, ed)
		}
	case "record":
		d.Kind = KindRecord
		for _, f := range s.Fields {
			ft, err := f.Type.toDesc()
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", f.Name, err)
			}
			d.Fields = append(d.Fields, Field{Name: f.Name, Type: ft, Case: f.Case, Index: -1})
		}
		if s.Variant != nil {
			v := &Variant{Field: s.Variant.Field}
			for _, c := range s.Variant.Cases {
				v.Cases = append(v.Cases, Case{Name: c.Name, Fields: c.Fields})
			}
			d.Variant = v
		}
	case "sequence":
		d.Kind = KindSequence
		ed, err := s.Elem.toDesc()
		if err != nil {
			return nil, err
		}
		d.Elem = ed
		if s.Len != nil {
			d.FixedLen = *s.Len
			d.HasFixedLen = true
		}
	case "map":
		d.Kind = KindMap
		kd, err := s.Key.toDesc()
		if err != nil {
			return nil, err
		}
		vd, err := s.Value.toDesc()
		if err != nil {
			return nil, err
		}
		d.Key, d.Value = kd, vd
	case "set":
		d.Kind = KindSet
		ed, err := s.Elem.toDesc()
		if err != nil {
			return nil, err
		}
		d.Elem = ed
	case "optional":
		d.Kind = KindOptional
		id, err := s.Inner.toDesc()
		if err != nil {
			return nil, err
		}
		d.Inner = id
	case "reference":
		d.Kind = KindReference
		id, err := s.Inner.toDesc()
		if err != nil {
			return nil, err
		}
		d.Inner = id
		d.Nilable = true
	case "any":
		d.Kind = KindAny
	default:
		return nil, fmt.Errorf("unknown type spec kind %q", s.Kind)
	}
	return d, nil
}
