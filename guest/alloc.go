package guest

import (
	"fmt"
	"sync"
	"unsafe"
)

// The allocator bridge. Buffers handed across the boundary are allocated
// here and pinned against the garbage collector until the other side frees
// them through Dealloc. The allocator is size-aware: Dealloc must receive the
// exact length the allocation was created with, because the pin table is
// keyed by address and validated by length. A mismatched length or a foreign
// pointer is a fatal misuse, not a recoverable error.

type allocation struct {
	buf  []byte // backing array, pinned
	size uintptr
}

var (
	allocMu sync.Mutex
	allocs  = make(map[uintptr]allocation)
)

// Alloc returns the address of a fresh region of size bytes with single-byte
// alignment. A zero-size request still yields a unique, freeable address.
func Alloc(size uintptr) uintptr {
	n := size
	if n == 0 {
		n = 1
	}
	buf := make([]byte, n)
	ptr := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))

	allocMu.Lock()
	allocs[ptr] = allocation{buf: buf, size: size}
	allocMu.Unlock()
	return ptr
}

// Dealloc releases a region previously returned by Alloc. size must be
// identical to the original request.
func Dealloc(ptr, size uintptr) {
	allocMu.Lock()
	defer allocMu.Unlock()

	a, ok := allocs[ptr]
	if !ok {
		panic(fmt.Sprintf("dealloc of unknown pointer %#x", ptr))
	}
	if a.size != size {
		panic(fmt.Sprintf("dealloc length %d does not match allocation length %d", size, a.size))
	}
	delete(allocs, ptr)
}

// bytesAt returns the live region of an allocation for filling before the
// address is handed across the boundary.
func bytesAt(ptr, size uintptr) []byte {
	allocMu.Lock()
	a, ok := allocs[ptr]
	allocMu.Unlock()

	if !ok || a.size != size {
		panic(fmt.Sprintf("no allocation of length %d at %#x", size, ptr))
	}
	return a.buf[:size]
}

// allocCount reports live allocations; used by tests to assert the table
// drains.
func allocCount() int {
	allocMu.Lock()
	defer allocMu.Unlock()
	return len(allocs)
}
