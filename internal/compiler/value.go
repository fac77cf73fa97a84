package compiler

import (
	"fmt"
	"reflect"

	"github.com/matchc-lang/matchc/internal/descriptor"
	"github.com/matchc-lang/matchc/internal/pattern"
)

// settle follows interface, pointer and optional wrapping down to the
// structural value. The second result reports presence: false means an
// absence was encountered and nothing was dereferenced past it.
func settle(v reflect.Value) (reflect.Value, bool) {
	for {
		switch {
		case !v.IsValid():
			return v, false
		case v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer:
			if v.IsNil() {
				return v, false
			}
			v = v.Elem()
		case v.Kind() == reflect.Struct && descriptor.Build(v.Type()).Kind == descriptor.KindOptional:
			if !v.FieldByName("Defined").Bool() {
				return v, false
			}
			v = v.FieldByName("Value")
		default:
			return v, true
		}
	}
}

// iface extracts the Go value behind v, tolerating the invalid value a
// nil interface scrutinee produces.
func iface(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	return v.Interface()
}

// literalMatches compares a settled value against a literal by kind.
// A kind mismatch is an ordinary non-match, never an error: inside an
// Or an incompatible alternative simply fails.
func literalMatches(lit *pattern.Literal, v reflect.Value) bool {
	switch lit.Kind {
	case pattern.LitBool:
		return v.Kind() == reflect.Bool && v.Bool() == lit.Bool
	case pattern.LitInt:
		return numericEqual(v, lit.Int)
	case pattern.LitChar:
		return numericEqual(v, int64(lit.Char))
	case pattern.LitFloat:
		switch v.Kind() {
		case reflect.Float32, reflect.Float64:
			return v.Float() == lit.Float
		}
		return false
	case pattern.LitString:
		if v.Kind() == reflect.String {
			return v.String() == lit.Str
		}
		// Non-string discriminators compare by their string rendering.
		if s, ok := iface(v).(fmt.Stringer); ok {
			return s.String() == lit.Str
		}
		return false
	}
	return false
}

func numericEqual(v reflect.Value, want int64) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == want
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return want >= 0 && v.Uint() == uint64(want)
	case reflect.Float32, reflect.Float64:
		return v.Float() == float64(want)
	}
	return false
}

// literalValue materializes a literal as a value of type t, falling
// back to the literal's natural Go type when t cannot carry it.
func literalValue(lit *pattern.Literal, t reflect.Type) reflect.Value {
	if t != nil && t.Kind() != reflect.Interface {
		out := reflect.New(t).Elem()
		switch {
		case lit.Kind == pattern.LitBool && t.Kind() == reflect.Bool:
			out.SetBool(lit.Bool)
			return out
		case (lit.Kind == pattern.LitInt || lit.Kind == pattern.LitChar) && isIntKind(t.Kind()):
			out.SetInt(litInt(lit))
			return out
		case (lit.Kind == pattern.LitInt || lit.Kind == pattern.LitChar) && isUintKind(t.Kind()) && litInt(lit) >= 0:
			out.SetUint(uint64(litInt(lit)))
			return out
		case lit.Kind == pattern.LitFloat && isFloatKind(t.Kind()):
			out.SetFloat(lit.Float)
			return out
		case lit.Kind == pattern.LitInt && isFloatKind(t.Kind()):
			out.SetFloat(float64(lit.Int))
			return out
		case lit.Kind == pattern.LitString && t.Kind() == reflect.String:
			out.SetString(lit.Str)
			return out
		}
	}
	switch lit.Kind {
	case pattern.LitBool:
		return reflect.ValueOf(lit.Bool)
	case pattern.LitInt:
		return reflect.ValueOf(lit.Int)
	case pattern.LitFloat:
		return reflect.ValueOf(lit.Float)
	case pattern.LitChar:
		return reflect.ValueOf(lit.Char)
	}
	return reflect.ValueOf(lit.Str)
}

func litInt(lit *pattern.Literal) int64 {
	if lit.Kind == pattern.LitChar {
		return int64(lit.Char)
	}
	return lit.Int
}

func isIntKind(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUintKind(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isFloatKind(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

// describeValue renders a scrutinee for the match failure message.
func describeValue(v reflect.Value) string {
	if !v.IsValid() {
		return "nil"
	}
	return fmt.Sprintf("%v (%s)", v.Interface(), v.Type())
}
