// Package interceptors holds the unary client interceptors used when the storefront dials gRPC.
package interceptors

import (
	"context"
	"time"

	"github.com/abgdnv/soapshop/pkg/config"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/retry"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
)

// NewRetryInterceptor retries calls failing with a transient code, backing off exponentially.
func NewRetryInterceptor(cfg config.RetryConfig) grpc.UnaryClientInterceptor {
	opts := []retry.CallOption{
		retry.WithCodes(codes.Unavailable, codes.ResourceExhausted, codes.Aborted),
		retry.WithMax(cfg.MaxAttempts),
		retry.WithBackoff(retry.BackoffExponential(cfg.InitialBackoff)),
	}
	return retry.UnaryClientInterceptor(opts...)
}

// UnaryClientTimeoutInterceptor bounds every call attempt by timeout.
func UnaryClientTimeoutInterceptor(timeout time.Duration) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return invoker(callCtx, method, req, reply, cc, opts...)
	}
}
