package udf

import (
	"errors"
	"fmt"
)

// Error categories of the call path. Both cross the boundary identically, as
// UTF-8 text plus status -1; the distinction exists only on the callee side.

var (
	// ErrEmptyStream is returned (wrapped in a SerializationError) when
	// well-formed IPC input contains no record batch.
	ErrEmptyStream = errors.New("input contains no record batch")
	// ErrNilResult is returned (wrapped in a FunctionError) when the scalar
	// function returns a nil array without an error.
	ErrNilResult = errors.New("function returned nil array")
)

// SerializationError reports malformed input bytes or a failure writing
// the result buffer.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return "serialization error: " + e.Err.Error()
}

func (e *SerializationError) Unwrap() error { return e.Err }

// FunctionError reports a failure of the invoked scalar function, or a
// violation of its output contract (nil result, row-count mismatch).
type FunctionError struct {
	Err error
}

func (e *FunctionError) Error() string {
	return "function error: " + e.Err.Error()
}

func (e *FunctionError) Unwrap() error { return e.Err }

func serializationErrorf(format string, args ...any) error {
	return &SerializationError{Err: fmt.Errorf(format, args...)}
}

func functionErrorf(format string, args ...any) error {
	return &FunctionError{Err: fmt.Errorf(format, args...)}
}
