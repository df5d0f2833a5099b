package server

import (
	"context"
	"log/slog"

	"github.com/abgdnv/soapshop/pkg/config"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

// RegistrationFunc registers a grpc service with the server.
type RegistrationFunc func(*grpc.Server)

// NewGRPCServer builds a traced gRPC server that logs finished calls and turns handler panics into codes.Internal.
func NewGRPCServer(logger *slog.Logger, cfg config.GrpcServerConfig, register ...RegistrationFunc) *grpc.Server {
	onPanic := recovery.WithRecoveryHandlerContext(func(ctx context.Context, p any) error {
		logger.ErrorContext(ctx, "Panic recovered in gRPC handler", "panic", p)
		return status.Error(codes.Internal, "internal error")
	})
	callLog := interceptorLogger(logger)
	logOpts := []logging.Option{logging.WithLogOnEvents(logging.FinishCall)}

	srv := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.KeepaliveParams(keepalive.ServerParameters{MaxConnectionIdle: cfg.MaxConnectionIdle}),
		grpc.ChainUnaryInterceptor(
			logging.UnaryServerInterceptor(callLog, logOpts...),
			recovery.UnaryServerInterceptor(onPanic),
		),
		grpc.ChainStreamInterceptor(
			logging.StreamServerInterceptor(callLog, logOpts...),
			recovery.StreamServerInterceptor(onPanic),
		),
	)
	if cfg.ReflectionEnabled {
		reflection.Register(srv)
	}
	for _, fn := range register {
		fn(srv)
	}
	return srv
}

func interceptorLogger(l *slog.Logger) logging.Logger {
	return logging.LoggerFunc(func(ctx context.Context, lvl logging.Level, msg string, fields ...any) {
		l.Log(ctx, slog.Level(lvl), msg, fields...)
	})
}
