// Package scope tracks the binding names a pattern introduces and
// enforces the consistency rules: a name may not label two different
// subpositions, and every OR alternative must bind exactly the same
// name set. Aliases participate like any other binding.
package scope

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matchc-lang/matchc/internal/pattern"
	"github.com/matchc-lang/matchc/matcherr"
)

// Check walks a normalized pattern and verifies its binding names.
// Violations are reported with both binding sites, at any nesting depth.
func Check(n pattern.Node) error {
	_, err := check(n, "pattern", map[string]string{})
	return err
}

// check returns the ambient binding map after walking n. Sites map each
// bound name to a human-readable path of where it was introduced.
func check(n pattern.Node, path string, ambient map[string]string) (map[string]string, error) {
	switch p := n.(type) {
	case *pattern.Variable:
		return bind(ambient, p.Name, path)

	case *pattern.TypeTest:
		return bind(ambient, p.Name, path)

	case *pattern.Alias:
		out, err := check(p.Inner, path, ambient)
		if err != nil {
			return nil, err
		}
		return bind(out, p.Name, path+" @ "+p.Name)

	case *pattern.Guarded:
		return check(p.Inner, path, ambient)

	case *pattern.Or:
		return checkOr(p, path, ambient)

	case *pattern.Tuple:
		out := ambient
		var err error
		for i, e := range p.Elements {
			out, err = check(e, fmt.Sprintf("%s.%d", path, i), out)
			if err != nil {
				return nil, err
			}
		}
		return out, nil

	case *pattern.Record:
		out := ambient
		var err error
		for _, f := range p.Fields {
			fp := f.Pattern
			if f.Shorthand {
				fp = pattern.NewVariable(p.Pos(), f.Name)
			}
			out, err = check(fp, path+"."+f.Name, out)
			if err != nil {
				return nil, err
			}
		}
		for i, a := range p.Positional {
			out, err = check(a, fmt.Sprintf("%s.%d", path, i), out)
			if err != nil {
				return nil, err
			}
		}
		return out, nil

	case *pattern.Sequence:
		out := ambient
		var err error
		for i, e := range p.Prefix {
			out, err = check(e.Pattern, fmt.Sprintf("%s[%d]", path, i), out)
			if err != nil {
				return nil, err
			}
		}
		if p.Spread != nil && p.Spread.Name != "" {
			out, err = bind(out, p.Spread.Name, path+"[*"+p.Spread.Name+"]")
			if err != nil {
				return nil, err
			}
		}
		for i, e := range p.Suffix {
			out, err = check(e.Pattern, fmt.Sprintf("%s[suffix %d]", path, i), out)
			if err != nil {
				return nil, err
			}
		}
		return out, nil

	case *pattern.Map:
		out := ambient
		var err error
		for _, e := range p.Entries {
			out, err = check(e.Pattern, path+"["+e.Key.String()+"]", out)
			if err != nil {
				return nil, err
			}
		}
		if p.HasRest && p.Rest != "" {
			out, err = bind(out, p.Rest, path+"[**"+p.Rest+"]")
			if err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	return ambient, nil
}

// checkOr verifies every alternative independently against the ambient
// names and requires all alternatives to introduce the same name set.
func checkOr(p *pattern.Or, path string, ambient map[string]string) (map[string]string, error) {
	var first map[string]string
	var firstNames []string

	for i, alt := range p.Alternatives {
		altPath := fmt.Sprintf("%s|%d", path, i)
		out, err := check(alt, altPath, clone(ambient))
		if err != nil {
			return nil, err
		}
		introduced := diff(out, ambient)
		names := sortedKeys(introduced)
		if i == 0 {
			first = introduced
			firstNames = names
			continue
		}
		if !equalSets(firstNames, names) {
			return nil, matcherr.NewSemanticErrorf(
				"OR alternatives bind different names: alternative 1 binds {%s}, alternative %d binds {%s}",
				strings.Join(firstNames, ", "), i+1, strings.Join(names, ", "))
		}
	}

	out := clone(ambient)
	for name, site := range first {
		out[name] = site
	}
	return out, nil
}

func bind(ambient map[string]string, name, site string) (map[string]string, error) {
	if prev, ok := ambient[name]; ok {
		return nil, matcherr.NewSemanticErrorf(
			"name %q is bound twice: at %s and at %s", name, prev, site)
	}
	out := clone(ambient)
	out[name] = site
	return out, nil
}

func clone(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func diff(after, before map[string]string) map[string]string {
	out := map[string]string{}
	for k, v := range after {
		if _, ok := before[k]; !ok {
			out[k] = v
		}
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func equalSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
