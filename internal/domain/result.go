package domain

import "github.com/lensfolio/internal/result"

// Result is the return type of every repository operation.
type Result[T any] = result.Result[T, *Error]

// Ok wraps value in a successful Result.
func Ok[T any](value T) Result[T] {
	return result.Success[T, *Error](value)
}

// Fail wraps err in a failed Result.
func Fail[T any](err *Error) Result[T] {
	return result.Failure[T](err)
}
