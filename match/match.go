// Package match is the public surface of the pattern matcher: compile
// textual patterns against a scrutinee type once, then evaluate values
// against the compiled arms.
package match

import (
	"reflect"

	"github.com/matchc-lang/matchc/internal/compiler"
	"github.com/matchc-lang/matchc/internal/descriptor"
	"github.com/matchc-lang/matchc/internal/validator"
)

// Env is the binding environment handed to guards and bodies: pattern
// binding name to matched value.
type Env = compiler.Env

// GuardEvaluator evaluates textual `and <expr>` guards. Hosts that only
// use Go-closure guards never need one.
type GuardEvaluator = compiler.GuardEvaluator

// Arm is one (pattern, guard?, body) clause of a match expression.
// Guard may be nil.
type Arm[T any] struct {
	Pattern string
	Guard   func(Env) bool
	Body    func(Env) T
}

// When builds an unguarded arm.
func When[T any](pattern string, body func(Env) T) Arm[T] {
	return Arm[T]{Pattern: pattern, Body: body}
}

// WhenGuarded builds an arm with a Go-closure guard. The guard runs
// only after the pattern matched, with the arm's bindings in scope.
func WhenGuarded[T any](pattern string, guard func(Env) bool, body func(Env) T) Arm[T] {
	return Arm[T]{Pattern: pattern, Guard: guard, Body: body}
}

// Opt configures compilation.
type Opt func(*options)

type options struct {
	evaluator GuardEvaluator
}

// WithEvaluator supplies the evaluator for textual guards.
func WithEvaluator(ev GuardEvaluator) Opt {
	return func(o *options) { o.evaluator = ev }
}

// Expr is a compiled match expression, bound to the scrutinee type it
// was compiled against. Safe for concurrent use.
type Expr[T any] struct {
	arms []compiler.Arm
}

// Compile parses, normalizes, validates and compiles every arm against
// the scrutinee's type. The scrutinee may be a sample value or a
// reflect.Type; nil compiles against a fully dynamic scrutinee.
func Compile[T any](scrutinee any, arms []Arm[T], opts ...Opt) (*Expr[T], error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	t := scrutineeType(scrutinee)
	d := &descriptor.Desc{Kind: descriptor.KindAny}
	if t != nil {
		d = descriptor.Build(t)
	}

	trees := make([]patternTree, len(arms))
	for i, arm := range arms {
		tree, err := prepared(arm.Pattern, t, d)
		if err != nil {
			return nil, err
		}
		trees[i] = tree
	}
	if err := validator.ValidateArms(treeNodes(trees)); err != nil {
		return nil, err
	}

	compiled := make([]compiler.Arm, len(arms))
	for i, arm := range arms {
		m, err := compiler.Compile(trees[i], d, compiler.Options{Evaluator: o.evaluator})
		if err != nil {
			return nil, err
		}
		compiled[i] = compiler.Arm{
			Matcher: m,
			Guard:   wrapGuard(arm.Guard),
			Body:    wrapBody(arm.Body),
		}
	}
	return &Expr[T]{arms: compiled}, nil
}

// Eval matches v against the arms in declaration order. It returns the
// winning body's result, or a match error when every arm fails.
func (e *Expr[T]) Eval(v any) (T, error) {
	out, err := compiler.Dispatch(reflect.ValueOf(v), e.arms)
	var zero T
	if err != nil {
		return zero, err
	}
	if out == nil {
		return zero, nil
	}
	return out.(T), nil
}

// Match compiles against v's dynamic type and evaluates in one step.
// Compilation results are memoized per (pattern, type), so repeated
// calls with the same arms and type do not re-validate.
func Match[T any](v any, arms []Arm[T], opts ...Opt) (T, error) {
	expr, err := Compile(v, arms, opts...)
	if err != nil {
		var zero T
		return zero, err
	}
	return expr.Eval(v)
}

// RegisterType gives a type a pattern-facing name so record patterns
// and type tests can resolve it in any-typed positions.
func RegisterType(name string, sample any) {
	descriptor.Register(name, reflect.TypeOf(sample))
}

func scrutineeType(scrutinee any) reflect.Type {
	if scrutinee == nil {
		return nil
	}
	if t, ok := scrutinee.(reflect.Type); ok {
		return t
	}
	return reflect.TypeOf(scrutinee)
}

func wrapGuard(g func(Env) bool) func(Env) (bool, error) {
	if g == nil {
		return nil
	}
	return func(env Env) (bool, error) { return g(env), nil }
}

func wrapBody[T any](body func(Env) T) func(Env) (any, error) {
	return func(env Env) (any, error) { return body(env), nil }
}
