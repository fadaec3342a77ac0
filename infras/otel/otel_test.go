package otel_test

import (
	"context"
	"errors"
	"kumbam/infras/otel"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecorder() (*tracetest.SpanRecorder, otel.Otel) {
	recorder := tracetest.NewSpanRecorder()
	provider := trace.NewTracerProvider(trace.WithSpanProcessor(recorder))

	return recorder, otel.NewWithProvider(provider)
}

func TestScope_RecordsAttributesAndEvents(t *testing.T) {
	recorder, tracer := newRecorder()

	_, scope := tracer.NewScope(context.Background(), "service", "service.CreateBooking")
	scope.SetAttributes(map[string]any{
		"venue_id": "hall-1",
		"days":     3,
		"amount":   int64(150000),
		"paid":     false,
	})
	scope.AddEvent("booking created")
	scope.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "service.CreateBooking", spans[0].Name())
	assert.ElementsMatch(t, []attribute.KeyValue{
		attribute.String("venue_id", "hall-1"),
		attribute.Int("days", 3),
		attribute.Int64("amount", 150000),
		attribute.Bool("paid", false),
	}, spans[0].Attributes())
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "booking created", spans[0].Events()[0].Name)
}

func TestScope_TraceIfError(t *testing.T) {
	recorder, tracer := newRecorder()

	_, ok := tracer.NewScope(context.Background(), "service", "ok")
	ok.TraceIfError(nil)
	ok.End()

	_, failed := tracer.NewScope(context.Background(), "service", "failed")
	failed.TraceIfError(errors.New("gateway timeout"))
	failed.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "gateway timeout", spans[1].Status().Description)
}

func TestNewWithProvider_ShutdownWithoutHook(t *testing.T) {
	_, tracer := newRecorder()

	assert.NoError(t, tracer.Shutdown(context.Background()))
}

type status string

func TestAttribute(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  attribute.KeyValue
	}{
		{name: "int32", value: int32(7), want: attribute.Int64("k", 7)},
		{name: "duration in ms", value: 1500 * time.Millisecond, want: attribute.Int64("k", 1500)},
		{name: "int64 slice", value: []int64{1, 2}, want: attribute.Int64Slice("k", []int64{1, 2})},
		{name: "named string", value: status("PENDING"), want: attribute.String("k", "PENDING")},
		{name: "stringer", value: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC).Month(), want: attribute.String("k", "April")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, otel.Attribute("k", tt.value))
		})
	}
}
