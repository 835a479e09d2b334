package endpoint

import (
	"context"
	"time"

	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/kbukum/healthkit/component"
)

// GRPCHealth serves the standard grpc.health.v1 Check RPC from a Checker.
// The empty service name reports the overall status; any other name checks
// that component. Degraded counts as SERVING.
type GRPCHealth struct {
	healthpb.UnimplementedHealthServer
	checker Checker
	timeout time.Duration
}

// NewGRPCHealth creates the gRPC health service. A positive timeout bounds
// each Check call.
func NewGRPCHealth(checker Checker, timeout time.Duration) *GRPCHealth {
	return &GRPCHealth{checker: checker, timeout: timeout}
}

// Check implements grpc_health_v1.HealthServer.
func (g *GRPCHealth) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	var s component.HealthStatus
	if name := req.GetService(); name == "" {
		s = g.checker.Report(ctx).Status
	} else {
		h, ok := g.checker.Check(ctx, name)
		if !ok {
			return nil, status.Errorf(codes.NotFound, "unknown component %q", name)
		}
		s = h.Status
	}
	return &healthpb.HealthCheckResponse{Status: servingStatus(s)}, nil
}

func servingStatus(s component.HealthStatus) healthpb.HealthCheckResponse_ServingStatus {
	if s == component.StatusUnhealthy {
		return healthpb.HealthCheckResponse_NOT_SERVING
	}
	return healthpb.HealthCheckResponse_SERVING
}
