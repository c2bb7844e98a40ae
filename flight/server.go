// Package flight exposes registered scalar functions over Arrow Flight.
//
// The service speaks the same calling convention as the in-process boundary,
// lifted onto a network transport: DoExchange carries input batches in and
// single-column "result" batches out, and ListFlights publishes the
// function manifest.
package flight

import (
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"google.golang.org/grpc"

	"github.com/hugr-lab/udf-go/sig"
)

// FunctionNameHeader is the gRPC metadata key naming the function a
// DoExchange stream targets.
const FunctionNameHeader = "udf-function-name"

// Server implements the Flight service handlers over a function registry.
// Embeds BaseFlightServer for forward compatibility with protocol changes.
type Server struct {
	flight.BaseFlightServer

	registry  *sig.Registry
	allocator memory.Allocator
	logger    *slog.Logger
}

// NewServer creates a Flight server serving the given registry.
// The logger is used for internal logging of errors and important events.
func NewServer(registry *sig.Registry, allocator memory.Allocator, logger *slog.Logger) *Server {
	if allocator == nil {
		allocator = memory.DefaultAllocator
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		registry:  registry,
		allocator: allocator,
		logger:    logger,
	}
}

// RegisterFlightServer registers the Flight service on the provided gRPC
// server. This follows the standard gRPC service registration pattern.
func RegisterFlightServer(grpcServer *grpc.Server, flightServer *Server) {
	flight.RegisterFlightServiceServer(grpcServer, flightServer)
}
