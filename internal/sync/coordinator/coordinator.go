package coordinator

import (
	"context"
	"log/slog"
	"time"

	"github.com/stacklok/seedsync/internal/config"
	pkgsync "github.com/stacklok/seedsync/internal/sync"
	"github.com/stacklok/seedsync/internal/sync/state"
	"github.com/stacklok/seedsync/internal/telemetry"
)

// Coordinator runs the sync of a batch of events
type Coordinator interface {
	// Run syncs the requested events one after another, pausing between them.
	// One Outcome is returned per request that was started. The error is only
	// set when ctx ended the batch early.
	Run(ctx context.Context, reqs []pkgsync.Request) ([]Outcome, error)
}

// Outcome is the result of syncing one event of a batch
type Outcome struct {
	Request  pkgsync.Request
	Result   *pkgsync.Result
	Err      error
	Duration time.Duration
}

// Failed reports whether the event sync ended in an error
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// defaultCoordinator is the default implementation of Coordinator
type defaultCoordinator struct {
	manager   pkgsync.Manager
	statusSvc state.EventStateService
	pause     time.Duration

	syncMetrics *telemetry.SyncMetrics

	// now is replaced in tests
	now func() time.Time
}

// Option is a function that configures the coordinator
type Option func(*defaultCoordinator)

// WithSyncMetrics sets the sync metrics for the coordinator
func WithSyncMetrics(metrics *telemetry.SyncMetrics) Option {
	return func(c *defaultCoordinator) {
		c.syncMetrics = metrics
	}
}

// WithPause overrides the configured pause between events
func WithPause(pause time.Duration) Option {
	return func(c *defaultCoordinator) {
		c.pause = pause
	}
}

// New creates a new coordinator with injected dependencies
func New(
	manager pkgsync.Manager,
	statusSvc state.EventStateService,
	cfg *config.Config,
	opts ...Option,
) Coordinator {
	c := &defaultCoordinator{
		manager:   manager,
		statusSvc: statusSvc,
		pause:     getPauseBetweenEvents(cfg),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Run syncs every requested event sequentially
func (c *defaultCoordinator) Run(ctx context.Context, reqs []pkgsync.Request) ([]Outcome, error) {
	slog.Info("Starting event sync batch", "event_count", len(reqs), "pause", c.pause)

	outcomes := make([]Outcome, 0, len(reqs))
	for i, req := range reqs {
		if i > 0 {
			if err := pause(ctx, c.pause); err != nil {
				slog.Warn("Event sync batch interrupted",
					"completed", len(outcomes),
					"remaining", len(reqs)-i,
					"error", err)
				return outcomes, err
			}
		}
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		outcomes = append(outcomes, c.performEventSync(ctx, req))
	}

	failed := 0
	for _, o := range outcomes {
		if o.Failed() {
			failed++
		}
	}
	slog.Info("Event sync batch finished", "event_count", len(outcomes), "failed", failed)

	return outcomes, nil
}

// pause waits for d or until ctx is done
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
