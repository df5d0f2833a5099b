package nats

import (
	"context"
	"fmt"

	"github.com/abgdnv/soapshop/pkg/messaging"
	"github.com/nats-io/nats.go/jetstream"
)

// JetStreamPublisher is the subset of jetstream.JetStream the publisher needs.
type JetStreamPublisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// NatsPublisher publishes events to JetStream using the event id as Nats-Msg-Id,
// so a retried publish inside the stream's duplicate window is stored once.
type NatsPublisher struct {
	js JetStreamPublisher
}

func NewNatsPublisher(js JetStreamPublisher) *NatsPublisher {
	return &NatsPublisher{js: js}
}

func (p *NatsPublisher) Publish(ctx context.Context, event messaging.Event) error {
	data, err := event.Payload()
	if err != nil {
		return fmt.Errorf("failed to get event payload: %w", err)
	}
	if _, err = p.js.Publish(ctx, event.Subject(), data, jetstream.WithMsgID(event.ID())); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Subject(), err)
	}
	return nil
}
