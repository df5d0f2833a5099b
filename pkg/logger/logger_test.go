package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func Test_ContextHandler_AddsTraceID(t *testing.T) {
	// given
	var buf bytes.Buffer
	log := slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil)))
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	// when
	log.InfoContext(ctx, "hello")
	log.InfoContext(context.Background(), "no span")
	// then
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	var first, second map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	require.NoError(t, json.Unmarshal(lines[1], &second))
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", first["trace_id"])
	assert.NotContains(t, second, "trace_id")
}

func Test_ContextHandler_AppendCtx(t *testing.T) {
	// given
	var buf bytes.Buffer
	log := slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil))).With("component", "test")
	ctx := AppendCtx(context.Background(), slog.String("cart_session", "abc"))
	ctx = AppendCtx(ctx, slog.Int("items", 2))
	// when
	log.InfoContext(ctx, "cart updated")
	// then
	line := decodeLine(t, &buf)
	assert.Equal(t, "abc", line["cart_session"])
	assert.EqualValues(t, 2, line["items"])
	assert.Equal(t, "test", line["component"])
}
