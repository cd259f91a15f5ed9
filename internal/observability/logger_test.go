package observability

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitLoggerRejectsUnknownLevel(t *testing.T) {
	old := Logger
	t.Cleanup(func() { Logger = old })

	if err := InitLogger("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if Logger != old {
		t.Fatal("expected Logger to be left untouched on error")
	}
}

func TestInitLoggerAppliesLevel(t *testing.T) {
	old := Logger
	t.Cleanup(func() { Logger = old })

	if err := InitLogger("warn"); err != nil {
		t.Fatalf("initializing logger: %v", err)
	}
	if Logger.Core().Enabled(zapcore.InfoLevel) {
		t.Fatal("expected info to be disabled at warn level")
	}
	if !Logger.Core().Enabled(zapcore.WarnLevel) {
		t.Fatal("expected warn to be enabled")
	}
}

func TestLoggerWithTraceAddsSpanFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	old := Logger
	Logger = zap.New(core)
	t.Cleanup(func() { Logger = old })

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x01},
		SpanID:     trace.SpanID{0x02},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	LoggerWithTrace(ctx).Info("traced")
	LoggerWithTrace(context.Background()).Info("untraced")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}

	traced := entries[0].ContextMap()
	if traced["trace_id"] != sc.TraceID().String() {
		t.Fatalf("expected trace_id %q, got %#v", sc.TraceID().String(), traced["trace_id"])
	}
	if traced["span_id"] != sc.SpanID().String() {
		t.Fatalf("expected span_id %q, got %#v", sc.SpanID().String(), traced["span_id"])
	}

	if _, ok := entries[1].ContextMap()["trace_id"]; ok {
		t.Fatal("did not expect trace_id without an active span")
	}
}
