// Package host loads compiled scalar-function modules and drives the
// boundary call protocol from the host side.
//
// A Runtime wraps a wazero WebAssembly runtime with WASI support. Loading a
// module verifies the guest's protocol version before any call is made:
//
//	rt, err := host.NewRuntime(ctx)
//	if err != nil { ... }
//	defer rt.Close(ctx)
//
//	mod, err := rt.Load(ctx, wasmBytes)
//	if err != nil { ... }
//	defer mod.Close(ctx)
//
//	out, err := mod.Invoke(ctx, inputIPC)
//
// Every buffer the host places in guest memory, and every buffer the guest
// hands back, is freed through the guest's own dealloc export with the exact
// length it was allocated with. Buffers never cross allocators.
package host
