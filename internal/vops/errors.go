// Package vops dispatches the vector operations: it validates operands,
// promotes them to a common working precision, coerces them, runs the
// matching kernel and publishes the result in place or in a new array.
package vops

import "errors"

// Errors reported by the dispatchers. They are always wrapped with the
// operation and argument at fault; test for them with errors.Is.
var (
	ErrArity             = errors.New("wrong number of arguments")
	ErrNotRealValued     = errors.New("argument is not real-valued")
	ErrShapeMismatch     = errors.New("arguments must have the same dimensions")
	ErrIncompatibleTypes = errors.New("arguments have incompatible types")
	ErrNotAssignable     = errors.New("argument must be a variable, not an expression")
	ErrUnknownOperation  = errors.New("unknown operation")
)
