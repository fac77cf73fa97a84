package compiler

import (
	"reflect"

	"github.com/matchc-lang/matchc/internal/descriptor"
	"github.com/matchc-lang/matchc/internal/pattern"
)

// seqPos is one compiled explicit position of a sequence pattern.
type seqPos struct {
	m   Matcher
	def *pattern.Literal
}

// compileSequence emits the prefix/spread/suffix split. When the
// physical length falls short, defaulted positions nearest the spread
// give up their element first and match their default instead; if the
// shortage exceeds the defaulted positions the pattern fails without
// raising, so the arm falls through.
func compileSequence(p *pattern.Sequence, d *descriptor.Desc, opts Options) (Matcher, error) {
	u := d.Unwrap()
	ed := anyDesc()
	if u.Kind == descriptor.KindSequence {
		ed = u.Elem
	}

	compileElems := func(elems []pattern.SeqElem) ([]seqPos, error) {
		out := make([]seqPos, len(elems))
		for i, e := range elems {
			m, err := Compile(e.Pattern, ed, opts)
			if err != nil {
				return nil, err
			}
			out[i] = seqPos{m: m, def: e.Default}
		}
		return out, nil
	}
	prefix, err := compileElems(p.Prefix)
	if err != nil {
		return nil, err
	}
	suffix, err := compileElems(p.Suffix)
	if err != nil {
		return nil, err
	}

	hasSpread := p.Spread != nil
	spreadName := ""
	if hasSpread {
		spreadName = p.Spread.Name
	}

	return func(v reflect.Value, env Env) (bool, error) {
		sv, present := settle(v)
		if !present {
			return false, nil
		}
		if sv.Kind() != reflect.Slice && sv.Kind() != reflect.Array {
			return false, nil
		}
		n := sv.Len()
		total := len(prefix) + len(suffix)
		if !hasSpread && n > total {
			return false, nil
		}

		usePre, useSuf, ok := surrenderPlan(prefix, suffix, total-n)
		if !ok {
			return false, nil
		}

		elemT := sv.Type().Elem()
		cursor := 0
		for i, pos := range prefix {
			var elem reflect.Value
			if usePre[i] {
				elem = literalValue(pos.def, elemT)
			} else {
				elem = sv.Index(cursor)
				cursor++
			}
			ok, err := pos.m(elem, env)
			if !ok || err != nil {
				return false, err
			}
		}

		realSuf := 0
		for j := range suffix {
			if !useSuf[j] {
				realSuf++
			}
		}
		if hasSpread && spreadName != "" {
			mid := reflect.MakeSlice(reflect.SliceOf(elemT), 0, n-cursor-realSuf)
			for k := cursor; k < n-realSuf; k++ {
				mid = reflect.Append(mid, sv.Index(k))
			}
			env[spreadName] = mid.Interface()
		}

		cursor = n - realSuf
		for j, pos := range suffix {
			var elem reflect.Value
			if useSuf[j] {
				elem = literalValue(pos.def, elemT)
			} else {
				elem = sv.Index(cursor)
				cursor++
			}
			ok, err := pos.m(elem, env)
			if !ok || err != nil {
				return false, err
			}
		}
		return true, nil
	}, nil
}

// surrenderPlan decides which defaulted positions give up their element
// when the scrutinee is shortage elements too short. Positions are
// considered outward from the spread point: end of prefix first, then
// start of suffix, alternating by distance. Returns ok=false on
// collision, i.e. when non-defaulted positions would have to share.
func surrenderPlan(prefix, suffix []seqPos, shortage int) (usePre, useSuf []bool, ok bool) {
	usePre = make([]bool, len(prefix))
	useSuf = make([]bool, len(suffix))
	if shortage <= 0 {
		return usePre, useSuf, true
	}
	max := len(prefix)
	if len(suffix) > max {
		max = len(suffix)
	}
	for dist := 0; dist < max && shortage > 0; dist++ {
		if i := len(prefix) - 1 - dist; i >= 0 && prefix[i].def != nil {
			usePre[i] = true
			shortage--
		}
		if shortage == 0 {
			break
		}
		if j := dist; j < len(suffix) && suffix[j].def != nil {
			useSuf[j] = true
			shortage--
		}
	}
	return usePre, useSuf, shortage == 0
}
