// Package guest is what a compiled function module imports in its main
// package. When built for GOOS=wasip1 it publishes the boundary ABI:
//
//	alloc(len) -> ptr
//	dealloc(ptr, len)
//	invoke_scalar(ptr, len, outPtrSlot, outLenSlot) -> status
//	invoke_named(namePtr, nameLen, ptr, len, outPtrSlot, outLenSlot) -> status
//	list_functions(outPtrSlot, outLenSlot) -> status
//	udf_version() -> version
//
// A minimal guest binds one function and leaves main empty:
//
//	package main
//
//	import (
//	    "github.com/hugr-lab/udf-go/guest"
//	)
//
//	func main() {}
//
//	func init() {
//	    guest.Bind(addOne)
//	}
//
// Modules carrying several functions register them with signatures instead;
// hosts then dispatch through invoke_named and discover them via
// list_functions.
package guest
