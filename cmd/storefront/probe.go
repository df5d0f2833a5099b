package main

import (
	"fmt"
	"net"
	"time"

	grpcImpl "github.com/abgdnv/soapshop/internal/transport/grpc"
	grpcclient "github.com/abgdnv/soapshop/pkg/client/grpc"
	"github.com/abgdnv/soapshop/pkg/config"
	"github.com/abgdnv/soapshop/pkg/config/configloader"
	"github.com/spf13/cobra"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// newProbeCmd checks the gRPC health service, suitable for container health checks.
func newProbeCmd(src *configloader.Source) *cobra.Command {
	retry := config.RetryConfig{MaxAttempts: 3, InitialBackoff: 200 * time.Millisecond, Timeout: 2 * time.Second}
	var addr string
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Exit non-zero unless the storefront reports SERVING over gRPC",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := retry.Validate(); err != nil {
				return err
			}
			if addr == "" {
				cfg, err := loadConfig(*src)
				if err != nil {
					return err
				}
				if !cfg.GRPC.Enabled {
					return fmt.Errorf("gRPC server is disabled, nothing to probe")
				}
				addr = net.JoinHostPort("localhost", cfg.GRPC.Port)
			}
			conn, err := grpcclient.NewClient(addr, retry)
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()

			st, err := grpcclient.Probe(cmd.Context(), conn, grpcImpl.ServiceName)
			if err != nil {
				return err
			}
			cmd.Printf("%s: %s\n", grpcImpl.ServiceName, st)
			if st != healthpb.HealthCheckResponse_SERVING {
				return fmt.Errorf("storefront is %s", st)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "gRPC address, defaults to localhost and the configured port")
	cmd.Flags().UintVar(&retry.MaxAttempts, "attempts", retry.MaxAttempts, "attempts before giving up")
	cmd.Flags().DurationVar(&retry.InitialBackoff, "backoff", retry.InitialBackoff, "backoff before the first retry")
	cmd.Flags().DurationVar(&retry.Timeout, "timeout", retry.Timeout, "timeout of each attempt")
	return cmd
}
