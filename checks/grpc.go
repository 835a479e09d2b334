package checks

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/kbukum/healthkit/component"
	apperrors "github.com/kbukum/healthkit/errors"
)

var _ component.HealthComponent = (*GRPC)(nil)

// GRPC checks a server implementing the standard gRPC health protocol.
type GRPC struct {
	base
	client  healthpb.HealthClient
	service string
	conn    *grpc.ClientConn
}

// NewGRPC creates a check over an existing connection. service selects the
// health service name; empty asks about the server as a whole.
func NewGRPC(name string, conn grpc.ClientConnInterface, service string, opts ...Option) *GRPC {
	target := "grpc"
	if cc, ok := conn.(*grpc.ClientConn); ok {
		target = cc.Target()
	}
	return &GRPC{
		base:    newBase(name, target, opts),
		client:  healthpb.NewHealthClient(conn),
		service: service,
	}
}

// NewGRPCTarget creates a check with its own plaintext connection to target.
// Close releases it.
func NewGRPCTarget(name, target, service string, opts ...Option) (*GRPC, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc: failed to create client for %s: %w", target, err)
	}
	g := NewGRPC(name, conn, service, opts...)
	g.conn = conn
	return g, nil
}

// CheckHealth calls Health/Check. SERVING is healthy, NOT_SERVING unhealthy
// and any other answer degraded.
func (g *GRPC) CheckHealth(ctx context.Context) (component.HealthStatus, error) {
	resp, err := g.client.Check(ctx, &healthpb.HealthCheckRequest{Service: g.service})
	if err != nil {
		return component.StatusUnhealthy, apperrors.ConnectionFailed(g.target, err)
	}
	g.succeeded(ctx)

	switch resp.GetStatus() {
	case healthpb.HealthCheckResponse_SERVING:
		return component.StatusHealthy, nil
	case healthpb.HealthCheckResponse_NOT_SERVING:
		return component.StatusUnhealthy, nil
	default:
		return component.StatusDegraded, nil
	}
}

// Close closes the connection if the check created it.
func (g *GRPC) Close() error {
	if g.conn == nil {
		return nil
	}
	return g.conn.Close()
}
