package domain

// Result carries the outcome of an asynchronous call: either a value or an
// error. Exactly one of the two is meaningful.
type Result[T any] struct {
	Value T
	Err   error
}

// Success wraps a value.
func Success[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Failure wraps an error.
func Failure[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// OK reports whether the call succeeded.
func (r Result[T]) OK() bool {
	return r.Err == nil
}
