package nano

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name used for spans.
const TracerName = "github.com/vango-dev/nano"

func defaultTracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

func (rt *runtime) startSpan(name string, attrs ...attribute.KeyValue) trace.Span {
	_, span := rt.tracer.Start(context.Background(), name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	return span
}

func endSpan(span trace.Span, mutations int, err error) {
	span.SetAttributes(attribute.Int("nano.mutations", mutations))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
