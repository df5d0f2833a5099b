// Package nats connects to NATS JetStream and publishes storefront events.
package nats

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abgdnv/soapshop/pkg/config"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Connect dials NATS and opens a JetStream context. Connection state changes are logged.
func Connect(clientName string, cfg config.NATSConfig, logger *slog.Logger) (*nats.Conn, jetstream.JetStream, error) {
	nc, err := nats.Connect(cfg.Url,
		nats.Name(clientName),
		nats.Timeout(cfg.Timeout),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", "url", config.MaskURL(c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}
	return nc, js, nil
}

// StreamConfig describes the event stream: file backed, deduplicated by message id.
func StreamConfig(cfg config.NATSConfig, subjects ...string) jetstream.StreamConfig {
	return jetstream.StreamConfig{
		Name:       cfg.Stream,
		Subjects:   subjects,
		Storage:    jetstream.FileStorage,
		Retention:  jetstream.LimitsPolicy,
		MaxAge:     cfg.MaxAge,
		Duplicates: cfg.DuplicateWindow,
	}
}

// StreamManager is the part of jetstream.JetStream EnsureStream needs.
type StreamManager interface {
	CreateOrUpdateStream(ctx context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error)
}

// EnsureStream creates the stream or brings an existing one in line with sc.
func EnsureStream(ctx context.Context, js StreamManager, sc jetstream.StreamConfig) error {
	if _, err := js.CreateOrUpdateStream(ctx, sc); err != nil {
		return fmt.Errorf("failed to ensure stream %s: %w", sc.Name, err)
	}
	return nil
}
