package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
)

func TestHookStampsRequestAndTraceIds(t *testing.T) {
	buf := bytes.Buffer{}
	logger := zerolog.New(&buf).Hook(AttachTraceIdFromContext())

	traceId, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	assert.NoError(t, err)
	spanId, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	assert.NoError(t, err)
	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceId, SpanID: spanId})

	c := AttachRequestIDToContext(context.Background(), "req-42")
	c = trace.ContextWithSpanContext(c, spanCtx)

	logger.Info().Ctx(c).Msg("handled request")

	out := buf.String()
	assert.Contains(t, out, `"requestId":"req-42"`)
	assert.Contains(t, out, `"traceId":"4bf92f3577b34da6a3ce929d0e0e4736"`)
	assert.Contains(t, out, `"spanId":"00f067aa0ba902b7"`)
}

func TestHookSkipsIdsWithoutContext(t *testing.T) {
	buf := bytes.Buffer{}
	logger := zerolog.New(&buf).Hook(AttachTraceIdFromContext())

	logger.Info().Msg("no ids")

	out := buf.String()
	assert.NotContains(t, out, "requestId")
	assert.NotContains(t, out, "traceId")
	assert.NotContains(t, out, "spanId")
}
