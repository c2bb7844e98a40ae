package flight

import (
	"errors"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// DoExchange executes a scalar function over a bidirectional stream.
//
// Protocol:
//   - The client names the function in the udf-function-name header.
//   - Each incoming batch is run through the function; each result array is
//     sent back as a one-column batch named "result".
//   - The output schema is derived from the first result array; every batch
//     of one stream must produce the same result type.
func (s *Server) DoExchange(stream flight.FlightService_DoExchangeServer) error {
	ctx := stream.Context()

	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return status.Errorf(codes.InvalidArgument, "missing metadata")
	}
	names := md.Get(FunctionNameHeader)
	if len(names) == 0 {
		return status.Errorf(codes.InvalidArgument, "missing %s header", FunctionNameHeader)
	}
	functionName := names[0]

	fn, ok := s.registry.Lookup(functionName)
	if !ok {
		return status.Errorf(codes.NotFound, "scalar function not found: %s", functionName)
	}

	s.logger.Debug("DoExchange requested", "function", functionName)

	reader, err := flight.NewRecordReader(stream, ipc.WithAllocator(s.allocator))
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "failed to read input stream: %v", err)
	}
	defer reader.Release()

	var (
		writer    *flight.Writer
		outSchema *arrow.Schema
	)
	defer func() {
		if writer != nil {
			writer.Close()
		}
	}()

	batchCount := 0
	for reader.Next() {
		in := reader.RecordBatch()
		batchCount++

		s.logger.Debug("executing scalar function",
			"function", functionName,
			"batch", batchCount,
			"rows", in.NumRows(),
		)

		res, err := fn(in)
		if err != nil {
			s.logger.Error("function execution failed",
				"function", functionName,
				"batch", batchCount,
				"error", err,
			)
			return status.Errorf(codes.InvalidArgument, "function %s failed: %v", functionName, err)
		}
		if res == nil {
			return status.Errorf(codes.Internal, "function %s returned nil array", functionName)
		}
		if int64(res.Len()) != in.NumRows() {
			rows := in.NumRows()
			got := res.Len()
			res.Release()
			return status.Errorf(codes.Internal,
				"function %s returned %d rows for %d input rows", functionName, got, rows)
		}

		if writer == nil {
			outSchema = arrow.NewSchema([]arrow.Field{
				{Name: "result", Type: res.DataType(), Nullable: true},
			}, nil)
			writer = flight.NewRecordWriter(stream,
				ipc.WithSchema(outSchema), ipc.WithAllocator(s.allocator))
		} else if !arrow.TypeEqual(outSchema.Field(0).Type, res.DataType()) {
			got := res.DataType()
			res.Release()
			return status.Errorf(codes.Internal,
				"function %s changed result type mid-stream: %s then %s",
				functionName, outSchema.Field(0).Type, got)
		}

		out := array.NewRecord(outSchema, []arrow.Array{res}, int64(res.Len()))
		err = writer.Write(out)
		out.Release()
		res.Release()
		if err != nil {
			return status.Errorf(codes.Internal, "failed to write result batch: %v", err)
		}
	}
	if err := reader.Err(); err != nil && !errors.Is(err, io.EOF) {
		return status.Errorf(codes.InvalidArgument, "error reading input: %v", err)
	}
	return nil
}
