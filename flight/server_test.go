package flight_test

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	udfflight "github.com/hugr-lab/udf-go/flight"
	"github.com/hugr-lab/udf-go/internal/serialize"
	"github.com/hugr-lab/udf-go/sig"
)

type testServer struct {
	grpcServer *grpc.Server
	listener   net.Listener
	address    string
}

// newTestServer starts a Flight server over the registry on a random port.
func newTestServer(t *testing.T, registry *sig.Registry) *testServer {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to create listener: %v", err)
	}

	grpcServer := grpc.NewServer()
	srv := udfflight.NewServer(registry, memory.DefaultAllocator,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	udfflight.RegisterFlightServer(grpcServer, srv)

	// The listener is bound before Serve runs, so clients may dial
	// immediately; pending connections queue until accepted.
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			log.Printf("server error: %v", err)
		}
	}()

	return &testServer{
		grpcServer: grpcServer,
		listener:   lis,
		address:    lis.Addr().String(),
	}
}

func (s *testServer) stop() {
	s.grpcServer.GracefulStop()
	s.listener.Close()
}

func newTestClient(t *testing.T, address string) flight.Client {
	t.Helper()

	client, err := flight.NewClientWithMiddleware(address, nil, nil,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("failed to create flight client: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func addOneRegistry(t *testing.T) *sig.Registry {
	t.Helper()

	registry := sig.NewRegistry()
	addOne := func(input arrow.RecordBatch) (arrow.Array, error) {
		col, ok := input.Column(0).(*array.Int32)
		if !ok {
			return nil, errors.New("expected int32 column")
		}
		builder := array.NewInt32Builder(memory.DefaultAllocator)
		defer builder.Release()
		for i := 0; i < col.Len(); i++ {
			builder.Append(col.Value(i) + 1)
		}
		return builder.NewInt32Array(), nil
	}
	s := sig.Sig{Name: "add_one", ArgTypes: []string{"int32"}, ReturnType: "int32"}
	if err := registry.Register(s, addOne); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return registry
}

// exchange streams one int32 batch through the named function and returns
// the result values.
func exchange(t *testing.T, client flight.Client, name string, values []int32) ([]int32, error) {
	t.Helper()

	ctx := metadata.AppendToOutgoingContext(context.Background(),
		udfflight.FunctionNameHeader, name)

	stream, err := client.DoExchange(ctx)
	if err != nil {
		return nil, err
	}

	schema := arrow.NewSchema([]arrow.Field{
		{Name: "x", Type: arrow.PrimitiveTypes.Int32},
	}, nil)
	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()
	builder.Field(0).(*array.Int32Builder).AppendValues(values, nil)
	record := builder.NewRecordBatch()
	defer record.Release()

	// Write errors are reported as io.EOF on early server rejection; the
	// real gRPC status surfaces on the read side.
	writer := flight.NewRecordWriter(stream, ipc.WithSchema(schema))
	var writeErr error
	if err := writer.Write(record); err != nil {
		writeErr = err
	}
	if err := writer.Close(); err != nil && writeErr == nil {
		writeErr = err
	}
	if err := stream.CloseSend(); err != nil && writeErr == nil {
		writeErr = err
	}

	reader, err := flight.NewRecordReader(stream)
	if err != nil {
		return nil, err
	}
	defer reader.Release()

	var out []int32
	for reader.Next() {
		res := reader.RecordBatch()
		if got := res.Schema().Field(0).Name; got != "result" {
			t.Errorf("expected column %q, got %q", "result", got)
		}
		col := res.Column(0).(*array.Int32)
		for i := 0; i < col.Len(); i++ {
			out = append(out, col.Value(i))
		}
	}
	if err := reader.Err(); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if writeErr != nil && !errors.Is(writeErr, io.EOF) {
		return nil, writeErr
	}
	return out, nil
}

func TestDoExchangeScalarFunction(t *testing.T) {
	server := newTestServer(t, addOneRegistry(t))
	defer server.stop()

	client := newTestClient(t, server.address)

	got, err := exchange(t, client, "add_one", []int32{1, 2, 3})
	if err != nil {
		t.Fatalf("exchange failed: %v", err)
	}
	want := []int32{2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestDoExchangeUnknownFunction(t *testing.T) {
	server := newTestServer(t, addOneRegistry(t))
	defer server.stop()

	client := newTestClient(t, server.address)

	_, err := exchange(t, client, "missing", []int32{1})
	if err == nil {
		t.Fatal("expected error for unknown function")
	}
	if st, ok := status.FromError(err); !ok || st.Code() != codes.NotFound {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestDoExchangeFunctionFailure(t *testing.T) {
	registry := addOneRegistry(t)
	failing := func(input arrow.RecordBatch) (arrow.Array, error) {
		return nil, errors.New("unsupported value")
	}
	if err := registry.Register(sig.Sig{Name: "failing"}, failing); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	server := newTestServer(t, registry)
	defer server.stop()

	client := newTestClient(t, server.address)

	_, err := exchange(t, client, "failing", []int32{1})
	if err == nil {
		t.Fatal("expected error from failing function")
	}
	if !strings.Contains(err.Error(), "unsupported value") {
		t.Errorf("error should carry the function message, got %v", err)
	}
}

func TestListFlightsManifest(t *testing.T) {
	server := newTestServer(t, addOneRegistry(t))
	defer server.stop()

	client := newTestClient(t, server.address)

	stream, err := client.ListFlights(context.Background(), &flight.Criteria{})
	if err != nil {
		t.Fatalf("ListFlights failed: %v", err)
	}

	info, err := stream.Recv()
	if err != nil {
		t.Fatalf("failed to receive FlightInfo: %v", err)
	}

	sigs, err := serialize.DecodeManifest(info.Endpoint[0].Ticket.Ticket)
	if err != nil {
		t.Fatalf("failed to decode manifest: %v", err)
	}
	if len(sigs) != 1 || sigs[0].Name != "add_one" {
		t.Errorf("expected manifest with add_one, got %+v", sigs)
	}
}
