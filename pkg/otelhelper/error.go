package otelhelper

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrorEvent is the span event recorded alongside a failed analysis.
const ErrorEvent = "analysis.error"

// SetError marks span as failed. A nil err leaves the span untouched.
func SetError(span trace.Span, err error, attrs ...attribute.KeyValue) {
	if err == nil {
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.AddEvent(ErrorEvent, trace.WithAttributes(attrs...))
}
