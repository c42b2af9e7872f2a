package internal

// Source is a value-or-producer field: unset, a concrete value, or a
// deferred producer.  Producers run once, at sampling time, so request data
// that is expensive or unsafe to read early is only touched when a sample
// is actually assembled.
type Source[T any] struct {
	set      bool
	value    T
	producer func() (T, error)
}

// Value wraps a concrete value.
func Value[T any](v T) Source[T] {
	return Source[T]{set: true, value: v}
}

// Deferred wraps a producer evaluated at resolution time.
func Deferred[T any](fn func() (T, error)) Source[T] {
	return Source[T]{set: true, producer: fn}
}

func (s Source[T]) IsSet() bool {
	return s.set
}

// Resolve returns the concrete value, running the producer when one was
// given.  A producer failure surfaces as an error so the caller can convert
// the field to absent.
func (s Source[T]) Resolve() (T, error) {
	if nil != s.producer {
		return s.producer()
	}
	return s.value, nil
}
