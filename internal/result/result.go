// Package result provides a two-branch value used at repository boundaries
// instead of bare (value, error) pairs: a Result is either a success carrying
// a value or a failure carrying a typed error, never both.
package result

import "fmt"

// Result holds exactly one of a success value of type T or a failure of type E.
type Result[T any, E error] struct {
	value T
	err   E
	ok    bool
}

// Success wraps value in the success branch.
func Success[T any, E error](value T) Result[T, E] {
	return Result[T, E]{value: value, ok: true}
}

// Failure wraps err in the failure branch.
func Failure[T any, E error](err E) Result[T, E] {
	return Result[T, E]{err: err}
}

// IsSuccess reports whether r carries a value.
func (r Result[T, E]) IsSuccess() bool {
	return r.ok
}

// IsFailure reports whether r carries an error.
func (r Result[T, E]) IsFailure() bool {
	return !r.ok
}

// Value returns the success value, or the zero value of T on failure.
func (r Result[T, E]) Value() T {
	return r.value
}

// Err returns the failure error, or the zero value of E on success.
func (r Result[T, E]) Err() E {
	return r.err
}

// Unwrap converts r back into the conventional (value, error) pair. The
// returned error is a true nil interface on success.
func (r Result[T, E]) Unwrap() (T, error) {
	if r.ok {
		return r.value, nil
	}
	return r.value, r.err
}

// IsSuccess is the function form of [Result.IsSuccess], part of the package
// API for callers that pass predicates around. Repository code uses the
// method.
func IsSuccess[T any, E error](r Result[T, E]) bool {
	return r.IsSuccess()
}

// IsFailure is the function form of [Result.IsFailure], kept alongside
// [IsSuccess] as part of the package API.
func IsFailure[T any, E error](r Result[T, E]) bool {
	return r.IsFailure()
}

// Map applies fn to the success value and leaves failures untouched.
func Map[T, U any, E error](r Result[T, E], fn func(T) U) Result[U, E] {
	if !r.ok {
		return Failure[U](r.err)
	}
	return Success[U, E](fn(r.value))
}

// TryCatch runs fn and folds its outcome into a Result. A returned error or
// a panic raised inside fn is converted through mapError into the failure
// branch.
func TryCatch[T any, E error](fn func() (T, error), mapError func(error) E) (r Result[T, E]) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err, ok := recovered.(error)
			if !ok {
				err = fmt.Errorf("panic: %v", recovered)
			}
			r = Failure[T](mapError(err))
		}
	}()

	value, err := fn()
	if err != nil {
		return Failure[T](mapError(err))
	}
	return Success[T, E](value)
}
