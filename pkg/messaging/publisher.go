// Package messaging defines the events the storefront emits and the publisher contract.
package messaging

import (
	"context"
)

// Event is a message about a change in the catalogue.
// ID is unique per event and lets the broker drop duplicate publishes.
type Event interface {
	ID() string
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher drops every event; it stands in when messaging is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
