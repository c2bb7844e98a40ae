package host

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"

	udf "github.com/hugr-lab/udf-go"
	"github.com/hugr-lab/udf-go/sig"
)

// guestModule is the narrow surface of an instantiated function module the
// call protocol drives. Implemented by wazero modules and by test fakes.
type guestModule interface {
	call(ctx context.Context, export string, params ...uint64) ([]uint64, error)
	read(ptr, length uint32) ([]byte, bool)
	write(ptr uint32, data []byte) bool
	close(ctx context.Context) error
}

// outSlotsLen is the size of the out-parameter block: two little-endian u32
// cells, result pointer first, result length second.
const outSlotsLen = 8

// Module is a loaded guest function module.
// A Module is not safe for concurrent calls; the boundary protocol is
// synchronous and single-threaded.
type Module struct {
	guest  guestModule
	logger *slog.Logger
}

func newModule(guest guestModule, logger *slog.Logger) *Module {
	return &Module{guest: guest, logger: logger}
}

// Close releases the module instance.
func (m *Module) Close(ctx context.Context) error {
	return m.guest.close(ctx)
}

// Version reads the guest's protocol version export.
func (m *Module) Version(ctx context.Context) (uint32, error) {
	res, err := m.guest.call(ctx, udf.ExportVersion)
	if err != nil {
		return 0, fmt.Errorf("failed to read guest version: %w", err)
	}
	if len(res) == 0 {
		return 0, fmt.Errorf("%s returned no result", udf.ExportVersion)
	}
	return uint32(res[0]), nil
}

func (m *Module) checkVersion(ctx context.Context) error {
	v, err := m.Version(ctx)
	if err != nil {
		return err
	}
	if v != udf.Version {
		return fmt.Errorf("%w: guest reports %d, host expects %d",
			ErrVersionMismatch, v, udf.Version)
	}
	return nil
}

// Invoke runs the guest's bound scalar function on a serialized input batch
// and returns the serialized result batch. A guest-reported failure comes
// back as a *CallError carrying the guest's message.
func (m *Module) Invoke(ctx context.Context, input []byte) ([]byte, error) {
	inPtr, err := m.push(ctx, input)
	if err != nil {
		return nil, err
	}
	defer m.dealloc(ctx, inPtr, uint32(len(input)))

	return m.invokeWire(ctx, udf.ExportInvokeScalar,
		uint64(inPtr), uint64(len(input)))
}

// InvokeNamed runs a function from the guest's signature registry.
func (m *Module) InvokeNamed(ctx context.Context, name string, input []byte) ([]byte, error) {
	namePtr, err := m.push(ctx, []byte(name))
	if err != nil {
		return nil, err
	}
	defer m.dealloc(ctx, namePtr, uint32(len(name)))

	inPtr, err := m.push(ctx, input)
	if err != nil {
		return nil, err
	}
	defer m.dealloc(ctx, inPtr, uint32(len(input)))

	return m.invokeWire(ctx, udf.ExportInvokeNamed,
		uint64(namePtr), uint64(len(name)), uint64(inPtr), uint64(len(input)))
}

// Functions enumerates the guest's registered signatures.
func (m *Module) Functions(ctx context.Context) ([]sig.Sig, error) {
	out, err := m.invokeWire(ctx, udf.ExportListFunctions)
	if err != nil {
		return nil, err
	}
	return sig.DecodeManifest(out)
}

// invokeWire calls an export that reports through out-slots, transfers the
// returned wire buffer out of guest memory, and frees it there.
func (m *Module) invokeWire(ctx context.Context, export string, params ...uint64) ([]byte, error) {
	out, status, err := m.callWire(ctx, export, params...)
	if err != nil {
		return nil, err
	}
	if status != udf.StatusOK {
		return nil, &CallError{Message: string(out)}
	}
	return out, nil
}

func (m *Module) callWire(ctx context.Context, export string, params ...uint64) ([]byte, int32, error) {
	slots, err := m.alloc(ctx, outSlotsLen)
	if err != nil {
		return nil, 0, err
	}
	defer m.dealloc(ctx, slots, outSlotsLen)

	params = append(params, uint64(slots), uint64(slots+4))
	res, err := m.guest.call(ctx, export, params...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s failed: %w", export, err)
	}
	if len(res) == 0 {
		return nil, 0, fmt.Errorf("%s returned no status", export)
	}
	status := int32(uint32(res[0]))

	raw, ok := m.guest.read(slots, outSlotsLen)
	if !ok {
		return nil, 0, errors.New("failed to read out-slots from guest memory")
	}
	outPtr := binary.LittleEndian.Uint32(raw[0:4])
	outLen := binary.LittleEndian.Uint32(raw[4:8])

	// The buffer now belongs to us; free it in the guest once copied out.
	defer m.dealloc(ctx, outPtr, outLen)

	data, ok := m.guest.read(outPtr, outLen)
	if !ok {
		return nil, 0, errors.New("failed to read result buffer from guest memory")
	}
	out := make([]byte, len(data))
	copy(out, data)

	m.logger.Debug("boundary call completed",
		"export", export,
		"status", status,
		"result_bytes", len(out),
	)
	return out, status, nil
}

// alloc allocates size bytes in guest memory through the guest's allocator.
func (m *Module) alloc(ctx context.Context, size uint32) (uint32, error) {
	res, err := m.guest.call(ctx, udf.ExportAlloc, uint64(size))
	if err != nil {
		return 0, fmt.Errorf("guest alloc failed: %w", err)
	}
	if len(res) == 0 {
		return 0, fmt.Errorf("%s returned no result", udf.ExportAlloc)
	}
	return uint32(res[0]), nil
}

// dealloc frees a guest allocation with its original length.
func (m *Module) dealloc(ctx context.Context, ptr, size uint32) {
	if _, err := m.guest.call(ctx, udf.ExportDealloc, uint64(ptr), uint64(size)); err != nil {
		m.logger.Error("guest dealloc failed", "ptr", ptr, "len", size, "error", err)
	}
}

// push copies data into a fresh guest allocation and returns its address.
// The caller frees it with dealloc using len(data).
func (m *Module) push(ctx context.Context, data []byte) (uint32, error) {
	ptr, err := m.alloc(ctx, uint32(len(data)))
	if err != nil {
		return 0, err
	}
	if len(data) > 0 && !m.guest.write(ptr, data) {
		m.dealloc(ctx, ptr, uint32(len(data)))
		return 0, errors.New("failed to write into guest memory")
	}
	return ptr, nil
}
