package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Metrics{}
	for _, scope := range rm.ScopeMetrics {
		if scope.Scope.Name != SyncMetricsMeterName {
			continue
		}
		for _, m := range scope.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestNewSyncMetrics_NilProvider(t *testing.T) {
	t.Parallel()

	metrics, err := NewSyncMetrics(nil)
	require.NoError(t, err)
	assert.Nil(t, metrics)

	// Recording on nil metrics must not panic
	metrics.RecordSyncDuration(context.Background(), 1, "Done", time.Second)
	metrics.RecordOutcome(context.Background(), 1, 1, 1, 1)
	metrics.RecordRateLimitWait(context.Background(), 1)
}

func TestSyncMetrics_Record(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	metrics, err := NewSyncMetrics(mp)
	require.NoError(t, err)
	require.NotNil(t, metrics)

	ctx := context.Background()
	metrics.RecordSyncDuration(ctx, 42, "Done", 1500*time.Millisecond)
	metrics.RecordOutcome(ctx, 42, 10, 2, 1)
	metrics.RecordOutcome(ctx, 42, 5, 0, 0)
	metrics.RecordRateLimitWait(ctx, 42)

	got := collect(t, reader)

	hist, ok := got["seedsync_sync_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
	assert.InDelta(t, 1.5, hist.DataPoints[0].Sum, 0.0001)
	phase, ok := hist.DataPoints[0].Attributes.Value("phase")
	require.True(t, ok)
	assert.Equal(t, "Done", phase.AsString())

	created, ok := got["seedsync_seed_assignments_created_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, created.DataPoints, 1)
	assert.Equal(t, int64(15), created.DataPoints[0].Value)

	conflicts, ok := got["seedsync_seed_conflicts_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Equal(t, int64(2), conflicts.DataPoints[0].Value)

	waits, ok := got["seedsync_rate_limit_waits_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Equal(t, int64(1), waits.DataPoints[0].Value)
}
