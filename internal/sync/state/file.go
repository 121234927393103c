package state

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/stacklok/seedsync/internal/status"
)

type fileStateService struct {
	// statusPersistence is nil for a purely in-memory service
	statusPersistence status.StatusPersistence

	mu             sync.RWMutex
	cachedStatuses map[int64]*status.SyncStatus
}

// NewFileStateService creates a file-backed event state service.
// Previously saved statuses are loaded immediately; a status left in a running
// phase by an interrupted process is reset to Failed.
func NewFileStateService(ctx context.Context, statusPersistence status.StatusPersistence) (EventStateService, error) {
	f := &fileStateService{
		statusPersistence: statusPersistence,
		cachedStatuses:    make(map[int64]*status.SyncStatus),
	}

	saved, err := statusPersistence.LoadAllStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sync statuses: %w", err)
	}
	for eventID, syncStatus := range saved {
		if syncStatus.Phase != "" && !syncStatus.Phase.IsTerminal() && syncStatus.Phase != status.SyncPhaseIdle {
			slog.Warn("Previous sync was interrupted, resetting to Failed",
				"event_id", eventID, "phase", syncStatus.Phase)
			syncStatus.Phase = status.SyncPhaseFailed
			syncStatus.Message = "Previous sync was interrupted"
			if err := statusPersistence.SaveStatus(ctx, eventID, syncStatus); err != nil {
				slog.Warn("Failed to persist corrected sync status", "event_id", eventID, "error", err)
			}
		}
		f.cachedStatuses[eventID] = syncStatus
	}

	return f, nil
}

// NewMemoryStateService creates an event state service that keeps statuses in memory only
func NewMemoryStateService() EventStateService {
	return &fileStateService{
		cachedStatuses: make(map[int64]*status.SyncStatus),
	}
}

func (f *fileStateService) ListSyncStatuses(_ context.Context) (map[int64]*status.SyncStatus, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	// Return copies to prevent external modification
	result := make(map[int64]*status.SyncStatus, len(f.cachedStatuses))
	for eventID, syncStatus := range f.cachedStatuses {
		statusCopy := *syncStatus
		result[eventID] = &statusCopy
	}
	return result, nil
}

func (f *fileStateService) GetSyncStatus(_ context.Context, eventID int64) (*status.SyncStatus, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	syncStatus, exists := f.cachedStatuses[eventID]
	if !exists {
		return idleStatus(), nil
	}
	statusCopy := *syncStatus
	return &statusCopy, nil
}

func (f *fileStateService) UpdateStatusAtomically(
	ctx context.Context,
	eventID int64,
	testAndUpdateFn func(syncStatus *status.SyncStatus) bool,
) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	syncStatus := idleStatus()
	if existing, exists := f.cachedStatuses[eventID]; exists {
		statusCopy := *existing
		syncStatus = &statusCopy
	}

	if !testAndUpdateFn(syncStatus) {
		return false, nil
	}
	if err := f.save(ctx, eventID, syncStatus); err != nil {
		return false, err
	}
	return true, nil
}

func (f *fileStateService) UpdateSyncStatus(ctx context.Context, eventID int64, syncStatus *status.SyncStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	statusCopy := *syncStatus
	return f.save(ctx, eventID, &statusCopy)
}

// save must be called with mu held
func (f *fileStateService) save(ctx context.Context, eventID int64, syncStatus *status.SyncStatus) error {
	if f.statusPersistence != nil {
		if err := f.statusPersistence.SaveStatus(ctx, eventID, syncStatus); err != nil {
			return err
		}
	}
	f.cachedStatuses[eventID] = syncStatus
	return nil
}
