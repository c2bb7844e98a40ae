package host

import "errors"

var (
	// ErrVersionMismatch is returned when the guest's protocol version does
	// not match the one this package speaks.
	ErrVersionMismatch = errors.New("protocol version mismatch")
	// ErrMissingExport is returned when the module lacks a required export.
	ErrMissingExport = errors.New("export not found")
)

// CallError carries the error text a guest reported with status -1. The
// guest-side distinction between serialization and function failures is not
// preserved across the boundary; only the message is.
type CallError struct {
	Message string
}

func (e *CallError) Error() string {
	return e.Message
}
