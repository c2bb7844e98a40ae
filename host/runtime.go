package host

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// Runtime manages the lifecycle of guest function modules.
type Runtime struct {
	runtime wazero.Runtime
	logger  *slog.Logger
}

// Option is a functional option for configuring a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger used for internal events.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRuntime creates a WebAssembly runtime with WASI support.
// Caller must call Close when done.
func NewRuntime(ctx context.Context, opts ...Option) (*Runtime, error) {
	r := &Runtime{logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}

	rt := wazero.NewRuntime(ctx)
	wasi_snapshot_preview1.MustInstantiate(ctx, rt)
	r.runtime = rt
	return r, nil
}

// Close releases the runtime and every module loaded from it.
func (r *Runtime) Close(ctx context.Context) error {
	return r.runtime.Close(ctx)
}

// Load instantiates a compiled function module and verifies its protocol
// version. Caller must call Close on the returned module.
func (r *Runtime) Load(ctx context.Context, wasmBytes []byte) (*Module, error) {
	mod, err := r.runtime.Instantiate(ctx, wasmBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate module: %w", err)
	}

	// Reactor-style modules initialize through _initialize, not _start.
	if init := mod.ExportedFunction("_initialize"); init != nil {
		if _, err := init.Call(ctx); err != nil {
			mod.Close(ctx)
			return nil, fmt.Errorf("failed to call _initialize: %w", err)
		}
	}

	m := newModule(&wazeroGuest{mod: mod}, r.logger)
	if err := m.checkVersion(ctx); err != nil {
		m.Close(ctx)
		return nil, err
	}
	return m, nil
}

// wazeroGuest adapts an instantiated wazero module to the guestModule
// surface the call protocol is written against.
type wazeroGuest struct {
	mod api.Module
}

func (g *wazeroGuest) call(ctx context.Context, export string, params ...uint64) ([]uint64, error) {
	f := g.mod.ExportedFunction(export)
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingExport, export)
	}
	return f.Call(ctx, params...)
}

func (g *wazeroGuest) read(ptr, length uint32) ([]byte, bool) {
	return g.mod.Memory().Read(ptr, length)
}

func (g *wazeroGuest) write(ptr uint32, data []byte) bool {
	return g.mod.Memory().Write(ptr, data)
}

func (g *wazeroGuest) close(ctx context.Context) error {
	return g.mod.Close(ctx)
}
