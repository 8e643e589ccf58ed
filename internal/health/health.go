// Package health serves the standard gRPC health checking protocol.
//
// Orchestrators that probe over gRPC see the studio as SERVING once the
// HTTP API is up and NOT_SERVING while it drains on shutdown.
package health

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the service reported alongside the overall "" status.
const ServiceName = "vozviva.Studio"

// Server wraps a gRPC server exposing grpc.health.v1.Health.
type Server struct {
	port   int
	logger *slog.Logger
	server *grpc.Server
	health *health.Server
}

// New creates a health server on the given port. It starts NOT_SERVING.
func New(port int, logger *slog.Logger) *Server {
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	gs := grpc.NewServer()
	healthpb.RegisterHealthServer(gs, hs)

	return &Server{
		port:   port,
		logger: logger,
		server: gs,
		health: hs,
	}
}

// SetReady marks the studio as serving or not serving.
func (s *Server) SetReady(ready bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if ready {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// ListenAndServe listens on the configured port and blocks until ctx is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("grpc health listen: %w", err)
	}
	return s.Serve(ctx, lis)
}

// Serve serves on lis until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	s.logger.Info("grpc health server listening", "addr", lis.Addr().String())

	go func() {
		<-ctx.Done()
		s.logger.Info("grpc health server shutting down")
		s.health.Shutdown()
		s.server.GracefulStop()
	}()

	return s.server.Serve(lis)
}
