package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	_ "net/http/pprof"

	"github.com/abgdnv/soapshop/internal/app"
	"github.com/abgdnv/soapshop/pkg/bootstrap"
	"github.com/abgdnv/soapshop/pkg/config/configloader"
	"github.com/abgdnv/soapshop/pkg/telemetry"
	"golang.org/x/sync/errgroup"
)

// serve starts the HTTP server, the optional gRPC and pprof servers and the background tasks,
// and stops them all when ctx is cancelled.
func serve(ctx context.Context, src configloader.Source) error {
	cfg, err := loadConfig(src)
	if err != nil {
		return err
	}
	log.Printf("Configuration loaded: %v", cfg)

	logger := bootstrap.NewLogger(cfg.Log)
	slog.SetDefault(logger)

	shutdownTracing, err := telemetry.Setup(ctx, app.ServiceName, version, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to set up telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Error("Failed to shut down tracing", "error", err)
		}
	}()

	deps, err := app.SetupDependencies(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to set up dependencies: %w", err)
	}
	defer deps.Close()

	g, gCtx := errgroup.WithContext(ctx)

	httpServer := app.SetupHttpServer(deps)
	g.Go(func() error {
		logger.Info("HTTP server listening", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if cfg.GRPC.Enabled {
		grpcServer := app.SetupGrpcServer(deps)
		g.Go(func() error {
			grpcAddr := ":" + cfg.GRPC.Port
			lis, err := net.Listen("tcp", grpcAddr)
			if err != nil {
				return fmt.Errorf("failed to listen on gRPC port: %w", err)
			}
			logger.Info("gRPC server listening", slog.String("addr", grpcAddr))
			return grpcServer.Serve(lis)
		})
		g.Go(func() error {
			<-gCtx.Done()
			logger.Info("Shutting down gRPC server...")
			stopped := make(chan struct{})
			go func() {
				grpcServer.GracefulStop()
				close(stopped)
			}()
			select {
			case <-stopped:
				logger.Info("gRPC server stopped gracefully.")
				return nil
			case <-time.After(cfg.Shutdown.Timeout):
				logger.Warn("gRPC server graceful stop timed out. Forcing stop.")
				grpcServer.Stop()
				return fmt.Errorf("grpc server graceful stop timed out")
			}
		})
	}

	if cfg.PProf.Enabled {
		pprofServer := &http.Server{Addr: cfg.PProf.Addr, ReadHeaderTimeout: cfg.HTTPServer.Timeout.ReadHeader}
		g.Go(func() error {
			logger.Info("Pprof server listening", slog.String("addr", pprofServer.Addr))
			if err := pprofServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("pprof server failed: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
			defer cancel()
			return pprofServer.Shutdown(shutdownCtx)
		})
	}

	for _, task := range deps.Tasks {
		g.Go(func() error {
			return task(gCtx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("errgroup encountered an error: %w", err)
	}
	logger.Info("Storefront stopped gracefully")
	return nil
}
