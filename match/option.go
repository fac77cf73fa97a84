package match

// Option is an optional value. The matcher recognizes the shape
// structurally: a defined Option matches as its inner value, an
// undefined one matches nil.
type Option[T any] struct {
	Value   T
	Defined bool
}

func Some[T any](v T) Option[T] {
	return Option[T]{Value: v, Defined: true}
}

func None[T any]() Option[T] {
	return Option[T]{Defined: false}
}

func (o Option[T]) IsDefined() bool {
	return o.Defined
}

func (o Option[T]) IsEmpty() bool {
	return !o.Defined
}

func (o Option[T]) Get() T {
	if !o.Defined {
		panic("Option.Get on None")
	}
	return o.Value
}

func (o Option[T]) GetOrElse(defaultValue T) T {
	if o.Defined {
		return o.Value
	}
	return defaultValue
}
