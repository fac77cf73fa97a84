package compiler

import (
	"reflect"

	"github.com/matchc-lang/matchc/matcherr"
)

// Arm is one compiled clause of a match expression: a matcher, an
// optional host-level guard, and the body to run on success.
type Arm struct {
	Matcher Matcher
	Guard   func(Env) (bool, error)
	Body    func(Env) (any, error)
}

// Dispatch tries arms in declaration order with a fresh environment per
// attempt. A guard failure falls through to the next arm; the first arm
// whose matcher and guard both succeed wins and its body's result is
// returned. Exhausting all arms raises a match error.
func Dispatch(v reflect.Value, arms []Arm) (any, error) {
	for _, arm := range arms {
		env := Env{}
		ok, err := arm.Matcher(v, env)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if arm.Guard != nil {
			ok, err := arm.Guard(env)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		return arm.Body(env)
	}
	return nil, matcherr.NewMatchError(describeValue(v))
}
