//go:build wasip1

package guest

import (
	"unsafe"

	udf "github.com/hugr-lab/udf-go"
)

// The exported boundary ABI. Pointers are 32-bit offsets into linear memory;
// out-slots are little-endian u32 cells the caller allocated through alloc.
// Export names match the udf.Export* constants.

//go:wasmexport alloc
func exportAlloc(size uint32) uint32 {
	return uint32(Alloc(uintptr(size)))
}

//go:wasmexport dealloc
func exportDealloc(ptr, size uint32) {
	Dealloc(uintptr(ptr), uintptr(size))
}

//go:wasmexport udf_version
func exportVersion() uint32 {
	return udf.Version
}

//go:wasmexport invoke_scalar
func exportInvokeScalar(ptr, length, outPtrSlot, outLenSlot uint32) int32 {
	out, status := invokeBound(view(ptr, length))
	writeOut(out, outPtrSlot, outLenSlot)
	return status
}

//go:wasmexport invoke_named
func exportInvokeNamed(namePtr, nameLen, ptr, length, outPtrSlot, outLenSlot uint32) int32 {
	name := string(view(namePtr, nameLen))
	out, status := invokeNamed(name, view(ptr, length))
	writeOut(out, outPtrSlot, outLenSlot)
	return status
}

//go:wasmexport list_functions
func exportListFunctions(outPtrSlot, outLenSlot uint32) int32 {
	out, status := manifest()
	writeOut(out, outPtrSlot, outLenSlot)
	return status
}

// view borrows length bytes at ptr. The view must not outlive the call.
func view(ptr, length uint32) []byte {
	if length == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(uintptr(ptr))), length)
}

// writeOut transfers ownership of out to the caller through the out-slots.
func writeOut(out []byte, outPtrSlot, outLenSlot uint32) {
	ptr, length := emit(out)
	*(*uint32)(unsafe.Pointer(uintptr(outPtrSlot))) = uint32(ptr)
	*(*uint32)(unsafe.Pointer(uintptr(outLenSlot))) = uint32(length)
}
