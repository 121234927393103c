// Package otel provides OpenTelemetry tracing helpers for the sync engine.
package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys shared by every span of the sync engine
const (
	AttrEventID     = attribute.Key("event.id")
	AttrSyncPhase   = attribute.Key("sync.phase")
	AttrSyncForced  = attribute.Key("sync.forced")
	AttrPageNumber  = attribute.Key("page.number")
	AttrPageSize    = attribute.Key("page.size")
	AttrSeed        = attribute.Key("seed")
	AttrUserID      = attribute.Key("competitor.external_user_id")
	AttrResultCount = attribute.Key("result.count")
)

// StartSpan starts a new span if the tracer is non-nil, otherwise returns a no-op span.
func StartSpan(
	ctx context.Context,
	tracer trace.Tracer,
	name string,
	opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, opts...)
}

// RecordError records err on the span and marks the span as failed.
// The status description is generic so queries and connection strings stay out of
// the trace status; the error itself is kept in the span events.
func RecordError(span trace.Span, err error) {
	if err != nil && span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "operation failed")
	}
}

// EndSpan records a non-nil *errp on the span and ends it. Meant for defer.
func EndSpan(span trace.Span, errp *error) {
	if errp != nil {
		RecordError(span, *errp)
	}
	span.End()
}
