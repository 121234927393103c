// Package state contains logic for managing the per-event sync state which seedsync persists.
package state

import (
	"context"

	"github.com/stacklok/seedsync/internal/status"
)

// EventStateService provides methods for inspecting and recording the sync state of events.
//
//go:generate mockgen -destination=mocks/mock_event_state_service.go -package=mocks -source=service.go EventStateService
type EventStateService interface {
	// ListSyncStatuses lists every recorded sync status keyed by external event id.
	ListSyncStatuses(ctx context.Context) (map[int64]*status.SyncStatus, error)
	// GetSyncStatus returns the status of the event, or an Idle status when none was recorded.
	GetSyncStatus(ctx context.Context, eventID int64) (*status.SyncStatus, error)
	// UpdateSyncStatus overrides the status of the event with the syncStatus parameter.
	UpdateSyncStatus(ctx context.Context, eventID int64, syncStatus *status.SyncStatus) error
	// UpdateStatusAtomically fetches the current status (Idle when none exists),
	// applies testAndUpdateFn to it, and stores the result when the function
	// reports a modification, all as a single atomic action. The boolean
	// returned by testAndUpdateFn is returned when done.
	UpdateStatusAtomically(
		ctx context.Context,
		eventID int64,
		testAndUpdateFn func(syncStatus *status.SyncStatus) bool,
	) (bool, error)
}

// idleStatus is the status of an event that never synced
func idleStatus() *status.SyncStatus {
	return &status.SyncStatus{Phase: status.SyncPhaseIdle}
}
