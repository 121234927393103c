package telemetry

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SyncMetricsMeterName is the name used for the sync metrics meter
const SyncMetricsMeterName = "github.com/stacklok/seedsync/sync"

// SyncMetrics holds the OpenTelemetry instruments for event sync runs
type SyncMetrics struct {
	syncDuration       metric.Float64Histogram
	assignmentsCreated metric.Int64Counter
	seedConflicts      metric.Int64Counter
	entrantsSkipped    metric.Int64Counter
	rateLimitWaits     metric.Int64Counter
}

// NewSyncMetrics creates the sync instruments on provider.
// If provider is nil, it returns nil, and recording on a nil *SyncMetrics is a no-op.
func NewSyncMetrics(provider metric.MeterProvider) (*SyncMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(SyncMetricsMeterName)

	syncDuration, err := meter.Float64Histogram(
		"seedsync_sync_duration_seconds",
		metric.WithDescription("Duration of event sync runs in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.5, 1, 5, 10, 30, 60, 120, 300, 600),
	)
	if err != nil {
		return nil, err
	}

	assignmentsCreated, err := meter.Int64Counter(
		"seedsync_seed_assignments_created_total",
		metric.WithDescription("Seed assignments persisted"),
		metric.WithUnit("{assignment}"),
	)
	if err != nil {
		return nil, err
	}

	seedConflicts, err := meter.Int64Counter(
		"seedsync_seed_conflicts_total",
		metric.WithDescription("Seed numbers claimed by more than one entrant"),
		metric.WithUnit("{conflict}"),
	)
	if err != nil {
		return nil, err
	}

	entrantsSkipped, err := meter.Int64Counter(
		"seedsync_entrants_skipped_total",
		metric.WithDescription("Entrants that could not be persisted"),
		metric.WithUnit("{entrant}"),
	)
	if err != nil {
		return nil, err
	}

	rateLimitWaits, err := meter.Int64Counter(
		"seedsync_rate_limit_waits_total",
		metric.WithDescription("Rate-limited page requests that were retried"),
		metric.WithUnit("{wait}"),
	)
	if err != nil {
		return nil, err
	}

	return &SyncMetrics{
		syncDuration:       syncDuration,
		assignmentsCreated: assignmentsCreated,
		seedConflicts:      seedConflicts,
		entrantsSkipped:    entrantsSkipped,
		rateLimitWaits:     rateLimitWaits,
	}, nil
}

func eventAttr(eventID int64) attribute.KeyValue {
	return attribute.String("event", strconv.FormatInt(eventID, 10))
}

// RecordSyncDuration records the duration and terminal phase of a sync run
func (m *SyncMetrics) RecordSyncDuration(ctx context.Context, eventID int64, phase string, duration time.Duration) {
	if m == nil || m.syncDuration == nil {
		return
	}
	m.syncDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		eventAttr(eventID),
		attribute.String("phase", phase),
	))
}

// RecordOutcome records assignment, conflict and skip counts of a finished run
func (m *SyncMetrics) RecordOutcome(ctx context.Context, eventID int64, created, conflicts, skipped int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(eventAttr(eventID))
	m.assignmentsCreated.Add(ctx, int64(created), attrs)
	m.seedConflicts.Add(ctx, int64(conflicts), attrs)
	m.entrantsSkipped.Add(ctx, int64(skipped), attrs)
}

// RecordRateLimitWait counts one rate-limited page request
func (m *SyncMetrics) RecordRateLimitWait(ctx context.Context, eventID int64) {
	if m == nil || m.rateLimitWaits == nil {
		return
	}
	m.rateLimitWaits.Add(ctx, 1, metric.WithAttributes(eventAttr(eventID)))
}
