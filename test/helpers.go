// Package test holds fixtures and span-recording helpers shared by the
// package tests.
package test

import (
	"context"
	"os"
	"testing"

	"github.com/ship-commander/mines/internal/minefield"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// CornerMineLayout is the 3x3 board with a single mine at the bottom-right
// cell (id 8):
//
//	0 0 0
//	0 1 1
//	0 1 *
func CornerMineLayout() []minefield.Position {
	return []minefield.Position{{X: 2, Y: 2}}
}

// TwoMineLayout is the 3x3 board with mines at both bottom corners:
//
//	0 0 0
//	1 2 1
//	* 2 *
func TwoMineLayout() []minefield.Position {
	return []minefield.Position{{X: 0, Y: 2}, {X: 2, Y: 2}}
}

// Context returns a context cancelled when the test completes.
func Context(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}

// Chdir changes to dir and restores the working directory on cleanup.
func Chdir(t *testing.T, dir string) {
	t.Helper()
	original, err := os.Getwd()
	require.NoError(t, err, "failed to get working directory")
	require.NoError(t, os.Chdir(dir), "failed to change directory")
	t.Cleanup(func() {
		if err := os.Chdir(original); err != nil {
			t.Errorf("restore working directory: %v", err)
		}
	})
}

// NewSpanRecorder returns a recorder and a tracer whose spans it captures.
func NewSpanRecorder(t *testing.T) (*tracetest.SpanRecorder, trace.Tracer) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() {
		_ = provider.Shutdown(context.Background())
	})
	return recorder, provider.Tracer("test/" + t.Name())
}

// InstallSpanRecorder makes a recording provider the global tracer provider
// until the test completes. Tests using it must not run in parallel.
func InstallSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			otel.Handle(err)
		}
		otel.SetTracerProvider(previous)
	})
	return recorder
}

// SpanByName returns the first ended span called name, or nil.
func SpanByName(recorder *tracetest.SpanRecorder, name string) sdktrace.ReadOnlySpan {
	for _, span := range recorder.Ended() {
		if span.Name() == name {
			return span
		}
	}
	return nil
}

// SpanAttr returns the emitted value of a span attribute.
func SpanAttr(span sdktrace.ReadOnlySpan, key string) (string, bool) {
	if span == nil {
		return "", false
	}
	for _, attr := range span.Attributes() {
		if string(attr.Key) == key {
			return attr.Value.Emit(), true
		}
	}
	return "", false
}

// SpanEvents returns the events of the first ended span called name.
func SpanEvents(recorder *tracetest.SpanRecorder, name string) []sdktrace.Event {
	if span := SpanByName(recorder, name); span != nil {
		return span.Events()
	}
	return nil
}

// EventAttr returns a string event attribute, or "" when absent.
func EventAttr(event sdktrace.Event, key string) string {
	for _, attr := range event.Attributes {
		if string(attr.Key) == key {
			return attr.Value.AsString()
		}
	}
	return ""
}
