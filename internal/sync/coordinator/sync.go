package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stacklok/seedsync/internal/status"
	pkgsync "github.com/stacklok/seedsync/internal/sync"
)

// performEventSync executes the sync of one event and records its final status
func (c *defaultCoordinator) performEventSync(ctx context.Context, req pkgsync.Request) Outcome {
	startTime := c.now()

	slog.Info("Starting sync operation",
		"event_id", req.EventID,
		"force", req.Force,
		"refresh_profiles", req.RefreshProfiles)

	result, err := c.manager.PerformSync(ctx, req)
	outcome := Outcome{
		Request:  req,
		Result:   result,
		Err:      err,
		Duration: c.now().Sub(startTime),
	}

	// The run holding the lock owns the status
	if errors.Is(err, pkgsync.ErrSyncInProgress) {
		slog.Warn("Event is being synced elsewhere, not recording status", "event_id", req.EventID)
		return outcome
	}

	phase := status.SyncPhaseFailed
	if err == nil && result != nil {
		phase = result.Phase
	}

	if err != nil {
		slog.Error("Sync failed", "event_id", req.EventID, "error", err)
	} else {
		slog.Info("Sync completed",
			"event_id", req.EventID,
			"phase", phase,
			"fetched", result.Fetched,
			"conflicts", result.Conflicts,
			"created", result.Created,
			"skipped", len(result.Skipped),
			"duration", outcome.Duration)
	}

	c.syncMetrics.RecordSyncDuration(ctx, req.EventID, string(phase), outcome.Duration)
	if result != nil {
		c.syncMetrics.RecordOutcome(ctx, req.EventID, result.Created, result.Conflicts, len(result.Skipped))
	}

	// A cancelled batch still records why the event failed
	statusCtx := context.WithoutCancel(ctx)
	_, updateErr := c.statusSvc.UpdateStatusAtomically(statusCtx, req.EventID, func(syncStatus *status.SyncStatus) bool {
		c.applyFinalStatus(syncStatus, startTime, result, err)
		return true
	})
	if updateErr != nil {
		slog.Error("Error updating sync status", "event_id", req.EventID, "error", updateErr)
	}

	return outcome
}

// applyFinalStatus records the outcome of a run on the event status
func (c *defaultCoordinator) applyFinalStatus(
	syncStatus *status.SyncStatus,
	startTime time.Time,
	result *pkgsync.Result,
	err error,
) {
	syncStatus.LastAttempt = &startTime

	if err != nil {
		syncStatus.Phase = status.SyncPhaseFailed
		syncStatus.Message = err.Error()
		syncStatus.AttemptCount++
		if result != nil {
			syncStatus.SkippedCount = len(result.Skipped)
		}
		return
	}

	syncStatus.Phase = result.Phase
	syncStatus.AttemptCount = 0

	switch result.Phase {
	case status.SyncPhaseSkipped:
		syncStatus.Message = "Event already has seed assignments"
	default:
		now := c.now()
		syncStatus.LastSyncTime = &now
		syncStatus.AssignmentCount = result.Created
		syncStatus.SkippedCount = len(result.Skipped)
		syncStatus.Message = fmt.Sprintf("Created %d seed assignments", result.Created)
		if len(result.Skipped) > 0 {
			syncStatus.Message += fmt.Sprintf(", skipped %d entrants", len(result.Skipped))
		}
	}
}
