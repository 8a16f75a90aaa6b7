package oteladapters_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/embedded"
	"go.opentelemetry.io/otel/log/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/AntonStoeckl/convention-query-builder-go/querybuilder/oteladapters"
)

// recordingLogger keeps every emitted record.
type recordingLogger struct {
	embedded.Logger
	records []log.Record
}

func (l *recordingLogger) Emit(_ context.Context, record log.Record) {
	l.records = append(l.records, record.Clone())
}

func (l *recordingLogger) Enabled(context.Context, log.EnabledParameters) bool {
	return true
}

func recordAttributes(record log.Record) map[string]log.Value {
	attrs := make(map[string]log.Value)
	record.WalkAttributes(func(kv log.KeyValue) bool {
		attrs[kv.Key] = kv.Value
		return true
	})

	return attrs
}

func Test_SlogBridgeLogger_AllLevels(t *testing.T) {
	// arrange
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(handler)
	ctx := context.Background()

	// act
	logger.DebugContext(ctx, "invocation resolved", "convention", "SetFieldTo")
	logger.InfoContext(ctx, "binding table rebuilt", "bindings", 4)
	logger.WarnContext(ctx, "duplicate conventions ignored")
	logger.ErrorContext(ctx, "invocation resolve failed")

	// assert
	output := buf.String()
	assert.Contains(t, output, `"level":"DEBUG","msg":"invocation resolved","convention":"SetFieldTo"`)
	assert.Contains(t, output, `"level":"INFO","msg":"binding table rebuilt","bindings":4`)
	assert.Contains(t, output, `"level":"WARN","msg":"duplicate conventions ignored"`)
	assert.Contains(t, output, `"level":"ERROR","msg":"invocation resolve failed"`)
}

func Test_SlogBridgeLogger_DoesNotPanic_WithGlobalProvider(t *testing.T) {
	// arrange
	provider := sdktrace.NewTracerProvider()
	defer func() { _ = provider.Shutdown(context.Background()) }()

	ctx, span := provider.Tracer("test").Start(context.Background(), "resolve")
	defer span.End()

	logger := oteladapters.NewSlogBridgeLogger("test")

	// act & assert
	assert.NotPanics(t, func() {
		logger.InfoContext(ctx, "invocation resolved")
	})
}

func Test_OTelLogger_EmitsRecords(t *testing.T) {
	// arrange
	recorder := &recordingLogger{}
	logger := oteladapters.NewOTelLogger(recorder)

	// act
	logger.InfoContext(context.Background(), "binding table rebuilt",
		"bindings", 4,
		"duration_ms", 1.5,
		"deferred", false,
		"module", "users",
		"dangling")
	logger.ErrorContext(context.Background(), "binding table rebuild failed")

	// assert
	require.Len(t, recorder.records, 2)

	info := recorder.records[0]
	assert.Equal(t, log.SeverityInfo, info.Severity())
	assert.Equal(t, "INFO", info.SeverityText())
	assert.Equal(t, "binding table rebuilt", info.Body().AsString())

	attrs := recordAttributes(info)
	assert.Len(t, attrs, 4)
	assert.Equal(t, int64(4), attrs["bindings"].AsInt64())
	assert.InDelta(t, 1.5, attrs["duration_ms"].AsFloat64(), 0.0001)
	assert.False(t, attrs["deferred"].AsBool())
	assert.Equal(t, "users", attrs["module"].AsString())

	assert.Equal(t, log.SeverityError, recorder.records[1].Severity())
}

func Test_OTelLogger_WithNoopLogger(t *testing.T) {
	logger := oteladapters.NewOTelLogger(noop.NewLoggerProvider().Logger("test"))

	assert.NotPanics(t, func() {
		logger.DebugContext(context.Background(), "invocation resolved", "convention", "SetFieldTo")
		logger.WarnContext(context.Background(), "duplicate conventions ignored", "ignored", 2)
	})
}
