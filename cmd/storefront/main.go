// Package main runs the storefront HTTP server and its maintenance commands.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/abgdnv/soapshop/internal/app"
	"github.com/abgdnv/soapshop/internal/config"
	"github.com/abgdnv/soapshop/pkg/config/configloader"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	src := configloader.Source{AppName: app.ServiceName}
	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Handcrafted soap storefront",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), src)
		},
	}
	root.PersistentFlags().StringVar(&src.ConfigFile, "config", configloader.DefaultConfigFile, "path to the yaml config file")
	root.PersistentFlags().StringVar(&src.EnvFile, "env", configloader.DefaultEnvFile, "path to the .env file")

	root.AddCommand(newServeCmd(&src), newMigrateCmd(&src), newSeedCmd(&src), newProbeCmd(&src))
	return root
}

func newServeCmd(src *configloader.Source) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP and gRPC servers (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), *src)
		},
	}
}

func loadConfig(src configloader.Source) (*config.Config, error) {
	cfg, err := configloader.Load[*config.Config](src)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
