// Package grpc exposes the storefront's gRPC surface: the standard health service
// backed by periodic checks of the product database.
package grpc

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the name health status is reported under, next to the overall "" entry.
const ServiceName = "storefront.v1.Storefront"

const pingTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthReporter keeps the gRPC health status in line with database reachability.
type HealthReporter struct {
	server   *health.Server
	pinger   Pinger
	interval time.Duration
	logger   *slog.Logger
}

func NewHealthReporter(pinger Pinger, interval time.Duration, logger *slog.Logger) *HealthReporter {
	return &HealthReporter{
		server:   health.NewServer(),
		pinger:   pinger,
		interval: interval,
		logger:   logger.With("component", "grpc-health"),
	}
}

// Register adds the health service to s.
func (h *HealthReporter) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.server)
}

// Run checks the database immediately and then every interval until ctx is done.
// On exit every service is reported NOT_SERVING.
func (h *HealthReporter) Run(ctx context.Context) error {
	defer h.server.Shutdown()
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.check(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			h.check(ctx)
		}
	}
}

func (h *HealthReporter) check(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := h.pinger.Ping(pingCtx); err != nil {
		h.logger.WarnContext(ctx, "Database ping failed", "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.server.SetServingStatus("", status)
	h.server.SetServingStatus(ServiceName, status)
}
