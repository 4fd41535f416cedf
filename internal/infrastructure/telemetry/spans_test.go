package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// recordSpans installs an in-memory tracer provider as the global one.
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func attrMap(kvs []attribute.KeyValue) map[string]attribute.Value {
	m := make(map[string]attribute.Value, len(kvs))
	for _, kv := range kvs {
		m[string(kv.Key)] = kv.Value
	}
	return m
}

func TestStartServiceSpan(t *testing.T) {
	sr := recordSpans(t)
	userID := uuid.New()

	_, span := StartServiceSpan(context.Background(), "invoice", "create",
		WithAttribute(SpanAttrUserID, userID),
		WithAttribute(SpanAttrItemCount, 3))
	SetAttribute(span, SpanAttrDocumentNumber, "FAC-25-0001")
	SetAttributes(span, SpanAttrAmount, 286.0, 42, "ignored")
	span.End()

	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "invoice.create", ended[0].Name())
	assert.Equal(t, trace.SpanKindInternal, ended[0].SpanKind())

	attrs := attrMap(ended[0].Attributes())
	assert.Equal(t, userID.String(), attrs[SpanAttrUserID].AsString())
	assert.Equal(t, int64(3), attrs[SpanAttrItemCount].AsInt64())
	assert.Equal(t, "FAC-25-0001", attrs[SpanAttrDocumentNumber].AsString())
	assert.Equal(t, 286.0, attrs[SpanAttrAmount].AsFloat64())
	assert.Len(t, attrs, 4)
}

func TestAddEvent(t *testing.T) {
	sr := recordSpans(t)

	_, span := StartSpan(context.Background(), "number")
	AddEvent(span, "number_conflict", SpanAttrDocumentNumber, "DEVIS-25-0002", SpanAttrAttempt, 2)
	span.End()

	events := sr.Ended()[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "number_conflict", events[0].Name)
	attrs := attrMap(events[0].Attributes)
	assert.Equal(t, "DEVIS-25-0002", attrs[SpanAttrDocumentNumber].AsString())
	assert.Equal(t, int64(2), attrs[SpanAttrAttempt].AsInt64())
}

func TestRecordError(t *testing.T) {
	sr := recordSpans(t)

	_, ok := StartSpan(context.Background(), "ok")
	RecordError(ok, nil)
	ok.End()

	_, failed := StartSpan(context.Background(), "failed")
	RecordError(failed, errors.New("client not found"))
	failed.End()

	ended := sr.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, codes.Unset, ended[0].Status().Code)
	assert.Equal(t, codes.Error, ended[1].Status().Code)
	assert.Equal(t, "client not found", ended[1].Status().Description)
	require.Len(t, ended[1].Events(), 1)
	assert.Equal(t, "exception", ended[1].Events()[0].Name)
}

func TestSpanHelpers_NilSpan(t *testing.T) {
	assert.NotPanics(t, func() {
		SetAttribute(nil, "k", "v")
		SetAttributes(nil, "k", "v")
		AddEvent(nil, "e")
		RecordError(nil, errors.New("x"))
	})
}

func TestToAttribute(t *testing.T) {
	id := uuid.MustParse("0b5d4c0e-8f0e-4b8e-9d5e-3c1d2f6a7b8c")
	tests := []struct {
		value any
		want  attribute.Value
	}{
		{"a", attribute.StringValue("a")},
		{7, attribute.IntValue(7)},
		{int64(8), attribute.Int64Value(8)},
		{1.5, attribute.Float64Value(1.5)},
		{true, attribute.BoolValue(true)},
		{[]string{"x", "y"}, attribute.StringSliceValue([]string{"x", "y"})},
		{id, attribute.StringValue(id.String())},
		{uint8(9), attribute.StringValue("9")},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, toAttribute("k", tt.value).Value, "%T", tt.value)
	}
}
