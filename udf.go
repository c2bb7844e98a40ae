package udf

import "github.com/apache/arrow-go/v18/arrow"

// Version is the boundary protocol version. Hosts read it from the guest's
// udf_version export once at load time and refuse to proceed on a mismatch.
const Version uint32 = 1

// Export names of the guest ABI. Hosts resolve these on the instantiated
// module; guests publish them via the guest package.
const (
	// ExportAlloc allocates a byte-aligned region in guest memory.
	ExportAlloc = "alloc"

	// ExportDealloc frees a region previously returned by alloc.
	// The length must equal the original allocation length.
	ExportDealloc = "dealloc"

	// ExportInvokeScalar invokes the bound scalar function.
	// Signature: (ptr, len, outPtrSlot, outLenSlot) -> status.
	ExportInvokeScalar = "invoke_scalar"

	// ExportInvokeNamed invokes a function from the signature registry.
	// Signature: (namePtr, nameLen, ptr, len, outPtrSlot, outLenSlot) -> status.
	ExportInvokeNamed = "invoke_named"

	// ExportListFunctions writes the msgpack signature manifest.
	// Signature: (outPtrSlot, outLenSlot) -> status.
	ExportListFunctions = "list_functions"

	// ExportVersion returns the protocol version.
	ExportVersion = "udf_version"
)

// ScalarFunction is a pure mapping from one record batch to one array.
//
// Implementations must not retain references into the input batch beyond the
// call, and must return an array whose length equals the input row count
// (Call rejects mismatches with a FunctionError). The returned array's
// ownership transfers to the caller.
type ScalarFunction func(input arrow.RecordBatch) (arrow.Array, error)
