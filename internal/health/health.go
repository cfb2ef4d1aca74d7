package health

import (
	"context"
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Service is the name the experiment server reports its status under.
const Service = "shapeitup"

// #region server
// Server exposes the standard gRPC health protocol next to the HTTP surface
// so orchestrators can probe the process without touching participant state.
type Server struct {
	grpc   *grpc.Server
	health *health.Server
}

// NewServer registers a health service that starts out NOT_SERVING.
func NewServer() *Server {
	hs := health.NewServer()
	gs := grpc.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	hs.SetServingStatus(Service, healthpb.HealthCheckResponse_NOT_SERVING)
	return &Server{grpc: gs, health: hs}
}

// SetServing flips the reported status of Service and the overall server.
func (s *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(Service, status)
	s.health.SetServingStatus("", status)
}

// Serve blocks until Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	if err := s.grpc.Serve(lis); err != nil {
		return fmt.Errorf("health serve: %w", err)
	}
	return nil
}

// Stop reports NOT_SERVING to watchers and drains open RPCs.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}

// #endregion server

// #region client
// Client probes a health endpoint.
type Client struct {
	conn   *grpc.ClientConn
	client healthpb.HealthClient
}

// NewClient connects to a health endpoint without transport security.
func NewClient(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{
		conn:   conn,
		client: healthpb.NewHealthClient(conn),
	}, nil
}

// NewClientWithService wraps an existing health client.
func NewClientWithService(svc healthpb.HealthClient) *Client {
	return &Client{client: svc}
}

// Close shuts down the connection, if any.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// Check returns the serving status name for service, e.g. "SERVING".
func (c *Client) Check(ctx context.Context, service string) (string, error) {
	resp, err := c.client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return "", fmt.Errorf("health check rpc: %w", err)
	}
	return resp.GetStatus().String(), nil
}

// #endregion client
