package grpc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type fakePinger struct {
	fail  atomic.Bool
	calls atomic.Int32
}

func (f *fakePinger) Ping(context.Context) error {
	f.calls.Add(1)
	if f.fail.Load() {
		return errors.New("connection refused")
	}
	return nil
}

func status(t *testing.T, h *HealthReporter, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := h.server.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func Test_HealthReporter_Check(t *testing.T) {
	// given
	pinger := &fakePinger{}
	h := NewHealthReporter(pinger, time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))
	// when
	h.check(context.Background())
	// then
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(t, h, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(t, h, ServiceName))

	pinger.fail.Store(true)
	h.check(context.Background())
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(t, h, ServiceName))
}

func Test_HealthReporter_Run(t *testing.T) {
	// given
	pinger := &fakePinger{}
	h := NewHealthReporter(pinger, 10*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	// when
	go func() { done <- h.Run(ctx) }()
	require.Eventually(t, func() bool { return pinger.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	// then
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(t, h, ServiceName))
}
