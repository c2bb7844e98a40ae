// Package udf implements the boundary calling convention for statically
// compiled Arrow scalar functions.
//
// A scalar function maps one Arrow record batch to one Arrow array. When the
// function lives in a different memory space than its caller (a WASM guest
// and its host, or a dynamically loaded module), the two sides exchange data
// as Arrow IPC file buffers (footer included) and transfer buffer ownership
// explicitly:
//
//   - The caller serializes the input batch in the IPC file format and hands
//     the bytes across the boundary.
//   - The callee deserializes the batch, invokes the function, wraps the
//     resulting array into a single-column batch named "result", and
//     serializes it back.
//   - The result buffer is handed back as a (pointer, length) pair together
//     with a status code: 0 carries IPC bytes, -1 carries UTF-8 error text.
//   - Every buffer crossing the boundary is freed exactly once, by the
//     receiving side, through the same allocator that produced it.
//
// The package is organized leaves-first:
//
//   - udf (this package): the ScalarFunction type, the marshaling core
//     (Call, Wrap), the error taxonomy, and the protocol version.
//   - sig: an explicit registry of function signatures, with a msgpack
//     manifest hosts use to enumerate functions across the boundary.
//   - guest: the WASM-side exports (alloc, dealloc, invoke_scalar, ...) a
//     function module publishes when built for GOOS=wasip1.
//   - host: a wazero-based runtime that loads a compiled function module and
//     drives the call protocol from the host side.
//   - flight: a Flight DoExchange service exposing a registry of scalar
//     functions over gRPC for callers that prefer a network boundary.
//
// # Ownership
//
// Wire buffers are moved, never shared. A buffer returned by invoke_scalar
// belongs to the caller, who must release it with dealloc using the exact
// length it was given. The protocol has no reference counting; an unreleased
// buffer is a leak.
//
// # Concurrency
//
// A call runs synchronously on the caller's thread. The package holds no
// shared mutable state on the call path; concurrent calls are safe exactly
// when the scalar function and the allocator are.
package udf
