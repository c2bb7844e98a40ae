package udf

import (
	"bytes"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// callConfig holds optional knobs for Call.
// This struct is unexported to enforce the functional options pattern.
type callConfig struct {
	allocator memory.Allocator
	compress  bool
}

// CallOption is a functional option for configuring Call and Wrap.
type CallOption func(*callConfig)

// WithAllocator sets the Arrow allocator used for deserialization and for
// building the result batch. Defaults to memory.DefaultAllocator.
func WithAllocator(allocator memory.Allocator) CallOption {
	return func(c *callConfig) {
		if allocator != nil {
			c.allocator = allocator
		}
	}
}

// WithZstd enables ZStandard body compression on the result buffer.
// The input is self-describing and needs no matching option.
func WithZstd() CallOption {
	return func(c *callConfig) {
		c.compress = true
	}
}

// Call deserializes exactly one record batch from input, invokes fn on it,
// and serializes the result in the Arrow IPC file format. Both sides of the
// boundary speak the file format, footer included, not the stream format.
//
// The result schema has one field named "result" whose type is the runtime
// type of the returned array and which is always nullable, regardless of the
// array's null content.
//
// Failures are reported as *SerializationError (unreadable input, empty
// input, unwritable output) or *FunctionError (fn failed, returned nil, or
// returned an array whose length differs from the input row count). The
// error text is what crosses the boundary; the category does not.
func Call(fn ScalarFunction, input []byte, opts ...CallOption) ([]byte, error) {
	cfg := callConfig{allocator: memory.DefaultAllocator}
	for _, opt := range opts {
		opt(&cfg)
	}

	reader, err := ipc.NewFileReader(bytes.NewReader(input), ipc.WithAllocator(cfg.allocator))
	if err != nil {
		return nil, serializationErrorf("failed to read input: %w", err)
	}
	defer reader.Close()

	if reader.NumRecords() == 0 {
		return nil, &SerializationError{Err: ErrEmptyStream}
	}
	batch, err := reader.RecordBatchAt(0)
	if err != nil {
		return nil, serializationErrorf("failed to read input batch: %w", err)
	}
	defer batch.Release()

	result, err := fn(batch)
	if err != nil {
		return nil, &FunctionError{Err: err}
	}
	if result == nil {
		return nil, &FunctionError{Err: ErrNilResult}
	}
	defer result.Release()

	if int64(result.Len()) != batch.NumRows() {
		return nil, functionErrorf("result length %d does not match input row count %d",
			result.Len(), batch.NumRows())
	}

	return writeResult(result, cfg)
}

// writeResult wraps the function's array into the one-column output envelope
// and serializes it into a finalized IPC file buffer.
func writeResult(result arrow.Array, cfg callConfig) ([]byte, error) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "result", Type: result.DataType(), Nullable: true},
	}, nil)

	out := array.NewRecord(schema, []arrow.Array{result}, int64(result.Len()))
	defer out.Release()

	wopts := []ipc.Option{ipc.WithSchema(schema), ipc.WithAllocator(cfg.allocator)}
	if cfg.compress {
		wopts = append(wopts, ipc.WithZstd())
	}

	var buf bytes.Buffer
	writer, err := ipc.NewFileWriter(&buf, wopts...)
	if err != nil {
		return nil, serializationErrorf("failed to create result writer: %w", err)
	}
	if err := writer.Write(out); err != nil {
		writer.Close()
		return nil, serializationErrorf("failed to write result batch: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, serializationErrorf("failed to finalize result: %w", err)
	}
	return buf.Bytes(), nil
}
