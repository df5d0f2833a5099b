package nats

import (
	"context"
	"errors"
	"testing"

	"github.com/abgdnv/soapshop/pkg/messaging/events"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJS struct {
	subject string
	payload []byte
	opts    int
	err     error
}

func (f *fakeJS) Publish(_ context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	f.subject = subject
	f.payload = payload
	f.opts = len(opts)
	if f.err != nil {
		return nil, f.err
	}
	return &jetstream.PubAck{Stream: "PRODUCTS"}, nil
}

func Test_NatsPublisher_Publish(t *testing.T) {
	// given
	js := &fakeJS{}
	p := NewNatsPublisher(js)
	// when
	err := p.Publish(context.Background(), events.NewProductCreated("p1", "Lavender Dreams", "Floral", decimal.RequireFromString("8.99")))
	// then
	require.NoError(t, err)
	assert.Equal(t, "product.created", js.subject)
	assert.Contains(t, string(js.payload), `"product_id":"p1"`)
	assert.Equal(t, 1, js.opts, "message id option")
}

func Test_NatsPublisher_PublishError(t *testing.T) {
	js := &fakeJS{err: errors.New("no responders")}
	p := NewNatsPublisher(js)

	err := p.Publish(context.Background(), events.NewProductDeleted("p1"))

	assert.ErrorContains(t, err, "failed to publish product.deleted")
}
