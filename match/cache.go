package match

import (
	"reflect"
	"sync"

	"github.com/matchc-lang/matchc/internal/descriptor"
	"github.com/matchc-lang/matchc/internal/normalizer"
	"github.com/matchc-lang/matchc/internal/parser"
	"github.com/matchc-lang/matchc/internal/pattern"
	"github.com/matchc-lang/matchc/internal/scope"
	"github.com/matchc-lang/matchc/internal/validator"
)

type patternTree = pattern.Node

// preparedKey identifies a fully prepared pattern: the expensive
// parse/normalize/validate phases are memoized per pattern source and
// scrutinee type identity.
type preparedKey struct {
	source string
	t      reflect.Type
}

type preparedEntry struct {
	tree patternTree
	err  error
}

var (
	preparedMu    sync.RWMutex
	preparedCache = map[preparedKey]preparedEntry{}
)

// prepared runs the compile-time pipeline for one pattern: parse,
// normalize shorthand, check binding scopes, validate against the
// descriptor. Results (including failures) are cached; prepared trees
// are immutable and shared.
func prepared(source string, t reflect.Type, d *descriptor.Desc) (patternTree, error) {
	key := preparedKey{source: source, t: t}

	preparedMu.RLock()
	e, ok := preparedCache[key]
	preparedMu.RUnlock()
	if ok {
		return e.tree, e.err
	}

	tree, err := prepare(source, d)

	preparedMu.Lock()
	preparedCache[key] = preparedEntry{tree: tree, err: err}
	preparedMu.Unlock()
	return tree, err
}

func prepare(source string, d *descriptor.Desc) (patternTree, error) {
	tree, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	tree, err = normalizer.Normalize(tree, d)
	if err != nil {
		return nil, err
	}
	if err := scope.Check(tree); err != nil {
		return nil, err
	}
	if err := validator.Validate(tree, d); err != nil {
		return nil, err
	}
	return tree, nil
}

func treeNodes(trees []patternTree) []pattern.Node {
	out := make([]pattern.Node, len(trees))
	copy(out, trees)
	return out
}
