package flight

import (
	"github.com/apache/arrow-go/v18/arrow/flight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/udf-go/internal/serialize"
)

// ListFlights publishes the function manifest.
//
// The response is a single FlightInfo whose ticket carries the registry's
// msgpack manifest, ZStandard-compressed for efficient transfer. Clients
// decode it to discover function names and signatures without executing
// anything. The criteria parameter is currently ignored.
func (s *Server) ListFlights(criteria *flight.Criteria, stream flight.FlightService_ListFlightsServer) error {
	s.logger.Debug("ListFlights called")

	compressed, err := serialize.EncodeManifest(s.registry)
	if err != nil {
		s.logger.Error("failed to encode manifest", "error", err)
		return status.Errorf(codes.Internal, "failed to encode manifest: %v", err)
	}

	info := &flight.FlightInfo{
		FlightDescriptor: &flight.FlightDescriptor{
			Type: flight.DescriptorCMD,
			Cmd:  []byte("list_functions"),
		},
		Endpoint: []*flight.FlightEndpoint{
			{Ticket: &flight.Ticket{Ticket: compressed}},
		},
		TotalRecords: int64(len(s.registry.Names())),
		TotalBytes:   int64(len(compressed)),
	}

	if err := stream.Send(info); err != nil {
		s.logger.Error("failed to send FlightInfo", "error", err)
		return status.Errorf(codes.Internal, "failed to send flight info: %v", err)
	}
	return nil
}
