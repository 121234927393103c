package database

import (
	"context"

	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/seedsync/internal/otel"
)

// StoreTracerName is the name used for the database store tracer
const StoreTracerName = "github.com/stacklok/seedsync/storage/db"

// startSpan starts a span tagged with db.system for database operations
func (s *dbStore) startSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	opts = append([]trace.SpanStartOption{trace.WithAttributes(semconv.DBSystemPostgreSQL)}, opts...)
	return otel.StartSpan(ctx, s.tracer, name, opts...)
}

func recordError(span trace.Span, err error) {
	otel.RecordError(span, err)
}
