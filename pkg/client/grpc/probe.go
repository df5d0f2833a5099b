// Package grpcclient dials the storefront's gRPC endpoint.
package grpcclient

import (
	"context"
	"fmt"

	"github.com/abgdnv/soapshop/pkg/client/grpc/interceptors"
	"github.com/abgdnv/soapshop/pkg/config"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// NewClient dials target with the retry and per-attempt timeout interceptors.
// The timeout interceptor runs inside the retry loop so each attempt gets its own deadline.
func NewClient(target string, cfg config.RetryConfig, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithChainUnaryInterceptor(
			interceptors.NewRetryInterceptor(cfg),
			interceptors.UnaryClientTimeoutInterceptor(cfg.Timeout),
		),
	}, opts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC client for %s: %w", target, err)
	}
	return conn, nil
}

// Probe asks the health service of conn for service and returns its serving status.
func Probe(ctx context.Context, conn grpc.ClientConnInterface, service string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, fmt.Errorf("health check failed: %w", err)
	}
	return resp.GetStatus(), nil
}
