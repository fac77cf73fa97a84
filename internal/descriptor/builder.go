package descriptor

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Builder caches are keyed by reflect.Type. Building is a pure function
// of the type, so cached descriptors are shared freely.
var (
	cacheMu sync.RWMutex
	cache   = map[reflect.Type]*Desc{}
)

// Of builds the descriptor for the dynamic type of v.
func Of(v any) *Desc {
	if v == nil {
		return &Desc{Kind: KindAny}
	}
	return Build(reflect.TypeOf(v))
}

// Build introspects a host type and returns its structural descriptor.
// Idempotent: the same type always yields the same (shared) descriptor.
func Build(t reflect.Type) *Desc {
	cacheMu.RLock()
	d, ok := cache[t]
	cacheMu.RUnlock()
	if ok {
		return d
	}

	cacheMu.Lock()
	defer cacheMu.Unlock()
	return buildLocked(t)
}

// buildLocked requires cacheMu to be held for writing. Composite types
// recurse through it so the lock is taken once per Build call.
func buildLocked(t reflect.Type) *Desc {
	if d, ok := cache[t]; ok {
		return d
	}
	// Reserve a slot before recursing so self-referential types
	// terminate. The placeholder is filled in place.
	d := &Desc{}
	cache[t] = d
	build(t, d)
	return d
}

func build(t reflect.Type, d *Desc) {
	switch t.Kind() {
	case reflect.Bool:
		d.Kind, d.Prim = KindPrimitive, PrimBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		d.Kind, d.Prim = KindPrimitive, PrimInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		d.Kind, d.Prim = KindPrimitive, PrimUint
	case reflect.Float32, reflect.Float64:
		d.Kind, d.Prim = KindPrimitive, PrimFloat
	case reflect.String:
		d.Kind, d.Prim = KindPrimitive, PrimString
	case reflect.Pointer:
		d.Kind = KindReference
		d.Nilable = true
		d.Inner = buildLocked(t.Elem())
	case reflect.Interface:
		d.Kind = KindAny
	case reflect.Slice:
		d.Kind = KindSequence
		d.Elem = buildLocked(t.Elem())
	case reflect.Array:
		d.Kind = KindSequence
		d.Elem = buildLocked(t.Elem())
		d.FixedLen = t.Len()
		d.HasFixedLen = true
	case reflect.Map:
		if isSetValueType(t.Elem()) {
			d.Kind = KindSet
			d.Elem = buildLocked(t.Key())
		} else {
			d.Kind = KindMap
			d.Key = buildLocked(t.Key())
			d.Value = buildLocked(t.Elem())
		}
	case reflect.Struct:
		buildStruct(t, d)
	default:
		d.Kind = KindAny
	}
}

// isSetValueType reports whether a map value type marks the map as a
// set (map[K]struct{} or map[K]bool).
func isSetValueType(t reflect.Type) bool {
	if t.Kind() == reflect.Bool {
		return true
	}
	return t.Kind() == reflect.Struct && t.NumField() == 0
}

func buildStruct(t reflect.Type, d *Desc) {
	if inner, ok := optionInner(t); ok {
		d.Kind = KindOptional
		d.Inner = buildLocked(inner)
		return
	}
	if elems, ok := tupleElems(t); ok {
		d.Kind = KindTuple
		d.Name = baseTypeName(t)
		d.Elems = make([]*Desc, len(elems))
		for i, e := range elems {
			d.Elems[i] = buildLocked(e)
		}
		return
	}

	d.Kind = KindRecord
	d.Name = baseTypeName(t)

	var variant *Variant
	caseOrder := map[string]*Case{}

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, caseName, isDisc, skip := parseTag(sf)
		if skip {
			continue
		}
		if name == "" {
			name = patternFieldName(sf.Name)
		}

		field := Field{
			Name:  name,
			Type:  buildLocked(sf.Type),
			Case:  caseName,
			Index: i,
		}
		d.Fields = append(d.Fields, field)

		if isDisc {
			if variant == nil {
				variant = &Variant{}
			}
			variant.Field = name
		}
		if caseName != "" {
			if variant == nil {
				variant = &Variant{}
			}
			c, ok := caseOrder[caseName]
			if !ok {
				variant.Cases = append(variant.Cases, Case{Name: caseName})
				c = &variant.Cases[len(variant.Cases)-1]
				caseOrder[caseName] = c
			}
			c.Fields = append(c.Fields, name)
		}
	}

	if variant != nil && variant.Field != "" {
		d.Variant = variant
	}
}

// parseTag reads the `match` struct tag. Supported directives:
// "-" (skip), "discriminator", "case=Name", and a leading bare token as
// a custom pattern-facing field name.
func parseTag(sf reflect.StructField) (name, caseName string, isDisc, skip bool) {
	tag, ok := sf.Tag.Lookup("match")
	if !ok {
		return "", "", false, false
	}
	for _, part := range strings.Split(tag, ",") {
		switch {
		case part == "-":
			return "", "", false, true
		case part == "discriminator":
			isDisc = true
		case strings.HasPrefix(part, "case="):
			caseName = strings.TrimPrefix(part, "case=")
		case part != "" && name == "":
			name = part
		}
	}
	return name, caseName, isDisc, false
}

// patternFieldName lowers an exported Go field name to its
// pattern-facing spelling: Value -> value, UserID -> userID.
func patternFieldName(goName string) string {
	if goName == "" {
		return goName
	}
	r := []rune(goName)
	r[0] = toLower(r[0])
	return string(r)
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

// baseTypeName strips generic instantiation brackets and package paths
// from a reflect type name: "Option[int]" -> "Option", "pkg.Foo" -> "Foo".
func baseTypeName(t reflect.Type) string {
	name := t.Name()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// optionInner recognizes Option-shaped structs: exactly a Value field
// plus a Defined bool flag, as the match package's Option[T] declares.
func optionInner(t reflect.Type) (reflect.Type, bool) {
	if t.NumField() != 2 {
		return nil, false
	}
	value, okV := t.FieldByName("Value")
	defined, okD := t.FieldByName("Defined")
	if !okV || !okD || defined.Type.Kind() != reflect.Bool {
		return nil, false
	}
	if !strings.HasPrefix(t.Name(), "Option[") && t.Name() != "Option" {
		return nil, false
	}
	return value.Type, true
}

// tupleElems recognizes tuple-shaped structs: every field named V1..Vn
// in order, n >= 2.
func tupleElems(t reflect.Type) ([]reflect.Type, bool) {
	n := t.NumField()
	if n < 2 {
		return nil, false
	}
	elems := make([]reflect.Type, n)
	for i := 0; i < n; i++ {
		sf := t.Field(i)
		if sf.Name != fmt.Sprintf("V%d", i+1) {
			return nil, false
		}
		elems[i] = sf.Type
	}
	return elems, true
}
