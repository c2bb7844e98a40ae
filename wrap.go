package udf

// Status codes of the boundary call. The caller must inspect the status
// before interpreting the output buffer: 0 carries IPC bytes, -1 carries
// UTF-8 error text in the same out-parameters.
const (
	StatusOK    int32 = 0
	StatusError int32 = -1
)

// Wrap drives Call and encodes the outcome the way the boundary reports it:
// on success the serialized result batch with StatusOK, on failure the
// error's textual description as UTF-8 bytes with StatusError.
//
// No Go error ever crosses this function; it is the last stop before the
// foreign boundary, which cannot unwind.
func Wrap(fn ScalarFunction, input []byte, opts ...CallOption) ([]byte, int32) {
	out, err := Call(fn, input, opts...)
	if err != nil {
		return []byte(err.Error()), StatusError
	}
	return out, StatusOK
}
