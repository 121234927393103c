package status

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

//go:generate mockgen -destination=mocks/mock_status_persistence.go -package=mocks -source=persistence.go StatusPersistence

const (
	// StatusFileName is the name of the status file
	StatusFileName = "status.json"
)

// StatusPersistence defines the interface for sync status persistence
//
//nolint:revive // This name is fine
type StatusPersistence interface {
	// SaveStatus saves the sync status of an event
	SaveStatus(ctx context.Context, eventID int64, syncStatus *SyncStatus) error

	// LoadStatus loads the sync status of an event.
	// Returns an empty SyncStatus if nothing was saved yet.
	LoadStatus(ctx context.Context, eventID int64) (*SyncStatus, error)

	// LoadAllStatus loads the sync status of every saved event
	LoadAllStatus(ctx context.Context) (map[int64]*SyncStatus, error)
}

// fileStatusPersistence implements StatusPersistence using local filesystem
type fileStatusPersistence struct {
	basePath string
}

// NewFileStatusPersistence creates a new file-based status persistence.
// basePath is the base directory where per-event status files will be stored.
func NewFileStatusPersistence(basePath string) StatusPersistence {
	return &fileStatusPersistence{
		basePath: basePath,
	}
}

func (f *fileStatusPersistence) eventDir(eventID int64) string {
	return filepath.Join(f.basePath, strconv.FormatInt(eventID, 10))
}

// SaveStatus saves the sync status to a JSON file in an event-specific directory
func (f *fileStatusPersistence) SaveStatus(_ context.Context, eventID int64, syncStatus *SyncStatus) error {
	eventDir := f.eventDir(eventID)
	if err := os.MkdirAll(eventDir, 0750); err != nil {
		return fmt.Errorf("failed to create status directory for event %d: %w", eventID, err)
	}

	filePath := filepath.Join(eventDir, StatusFileName)

	data, err := json.MarshalIndent(syncStatus, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal status data for event %d: %w", eventID, err)
	}

	// Write to temporary file first for atomic operation
	tempPath := filePath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary status file for event %d: %w", eventID, err)
	}

	if err := os.Rename(tempPath, filePath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename status file for event %d: %w", eventID, err)
	}

	return nil
}

// LoadStatus loads the sync status from the JSON file of an event
func (f *fileStatusPersistence) LoadStatus(_ context.Context, eventID int64) (*SyncStatus, error) {
	filePath := filepath.Join(f.eventDir(eventID), StatusFileName)

	// #nosec G304 -- filePath is built from basePath and a numeric event id
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			// First run for this event
			return &SyncStatus{}, nil
		}
		return nil, fmt.Errorf("failed to read status file for event %d: %w", eventID, err)
	}

	var status SyncStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status data for event %d: %w", eventID, err)
	}

	return &status, nil
}

// LoadAllStatus loads sync status for every event directory under basePath
func (f *fileStatusPersistence) LoadAllStatus(ctx context.Context) (map[int64]*SyncStatus, error) {
	result := make(map[int64]*SyncStatus)

	entries, err := os.ReadDir(f.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return nil, fmt.Errorf("failed to read status directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		eventID, err := strconv.ParseInt(entry.Name(), 10, 64)
		if err != nil {
			continue
		}

		status, err := f.LoadStatus(ctx, eventID)
		if err != nil {
			// Partial results are preferred over failing the whole listing
			continue
		}
		result[eventID] = status
	}

	return result, nil
}
