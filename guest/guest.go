package guest

import (
	"fmt"

	udf "github.com/hugr-lab/udf-go"
	"github.com/hugr-lab/udf-go/sig"
)

// bound is the function behind the invoke_scalar export. The boundary is
// single-threaded; binding happens at init time, before any call arrives.
var bound udf.ScalarFunction

// Bind sets the scalar function invoked by the invoke_scalar export.
// Call it from an init function of the guest main package.
func Bind(fn udf.ScalarFunction) {
	bound = fn
}

// Register adds fn to the default signature registry served by the
// invoke_named and list_functions exports.
func Register(s sig.Sig, fn udf.ScalarFunction) error {
	return sig.Default().Register(s, fn)
}

// invokeBound is the portable core of the invoke_scalar export.
func invokeBound(input []byte) ([]byte, int32) {
	if bound == nil {
		return []byte("no scalar function bound"), udf.StatusError
	}
	return udf.Wrap(bound, input)
}

// invokeNamed is the portable core of the invoke_named export.
func invokeNamed(name string, input []byte) ([]byte, int32) {
	fn, ok := sig.Default().Lookup(name)
	if !ok {
		return []byte(fmt.Sprintf("unknown function %q", name)), udf.StatusError
	}
	return udf.Wrap(fn, input)
}

// manifest is the portable core of the list_functions export.
func manifest() ([]byte, int32) {
	data, err := sig.Default().Manifest()
	if err != nil {
		return []byte(err.Error()), udf.StatusError
	}
	return data, udf.StatusOK
}

// emit copies out into a fresh allocation owned by the caller and returns
// its address. The caller frees it with Dealloc using the returned length.
func emit(out []byte) (ptr uintptr, length uintptr) {
	length = uintptr(len(out))
	ptr = Alloc(length)
	copy(bytesAt(ptr, length), out)
	return ptr, length
}
