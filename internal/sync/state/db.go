package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stacklok/seedsync/internal/db/sqlc"
	"github.com/stacklok/seedsync/internal/status"
)

type dbStatusService struct {
	pool *pgxpool.Pool
}

// NewDBStateService creates a new database-backed event state service
func NewDBStateService(pool *pgxpool.Pool) EventStateService {
	return &dbStatusService{
		pool: pool,
	}
}

func (d *dbStatusService) ListSyncStatuses(ctx context.Context) (map[int64]*status.SyncStatus, error) {
	rows, err := sqlc.New(d.pool).ListEventSyncStatuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync statuses: %w", err)
	}

	result := make(map[int64]*status.SyncStatus, len(rows))
	for _, row := range rows {
		result[row.EventExternalID] = dbSyncToStatus(row)
	}
	return result, nil
}

func (d *dbStatusService) GetSyncStatus(ctx context.Context, eventID int64) (*status.SyncStatus, error) {
	return getSyncStatus(ctx, sqlc.New(d.pool), eventID)
}

func (d *dbStatusService) UpdateSyncStatus(ctx context.Context, eventID int64, syncStatus *status.SyncStatus) error {
	return upsertSyncStatus(ctx, sqlc.New(d.pool), eventID, syncStatus)
}

func (d *dbStatusService) UpdateStatusAtomically(
	ctx context.Context,
	eventID int64,
	testAndUpdateFn func(syncStatus *status.SyncStatus) bool,
) (bool, error) {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	queries := sqlc.New(d.pool).WithTx(tx)

	// The row lock serializes concurrent updates of the same event
	if err := queries.InitializeEventSyncStatus(ctx, eventID); err != nil {
		return false, fmt.Errorf("failed to initialize sync status of event %d: %w", eventID, err)
	}
	row, err := queries.GetEventSyncStatusForUpdate(ctx, eventID)
	if err != nil {
		return false, fmt.Errorf("failed to lock sync status of event %d: %w", eventID, err)
	}
	syncStatus := dbSyncToStatus(row)

	if !testAndUpdateFn(syncStatus) {
		return false, nil
	}

	if err := upsertSyncStatus(ctx, queries, eventID, syncStatus); err != nil {
		return false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return true, nil
}

func getSyncStatus(ctx context.Context, queries *sqlc.Queries, eventID int64) (*status.SyncStatus, error) {
	row, err := queries.GetEventSyncStatus(ctx, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return idleStatus(), nil
		}
		return nil, fmt.Errorf("failed to get sync status of event %d: %w", eventID, err)
	}
	return dbSyncToStatus(row), nil
}

func upsertSyncStatus(ctx context.Context, queries *sqlc.Queries, eventID int64, syncStatus *status.SyncStatus) error {
	var message *string
	if syncStatus.Message != "" {
		message = &syncStatus.Message
	}

	//nolint:gosec // counters are bounded by entrant counts
	err := queries.UpsertEventSyncStatus(ctx, sqlc.UpsertEventSyncStatusParams{
		EventExternalID: eventID,
		Phase:           string(syncStatus.Phase),
		Message:         message,
		LastAttempt:     syncStatus.LastAttempt,
		AttemptCount:    int32(syncStatus.AttemptCount),
		LastSyncTime:    syncStatus.LastSyncTime,
		AssignmentCount: int32(syncStatus.AssignmentCount),
		SkippedCount:    int32(syncStatus.SkippedCount),
	})
	if err != nil {
		return fmt.Errorf("failed to update sync status of event %d: %w", eventID, err)
	}
	return nil
}

// dbSyncToStatus converts a database EventSyncStatus to a status.SyncStatus
func dbSyncToStatus(row sqlc.EventSyncStatus) *status.SyncStatus {
	syncStatus := &status.SyncStatus{
		Phase:           status.SyncPhase(row.Phase),
		LastAttempt:     row.LastAttempt,
		AttemptCount:    int(row.AttemptCount),
		LastSyncTime:    row.LastSyncTime,
		AssignmentCount: int(row.AssignmentCount),
		SkippedCount:    int(row.SkippedCount),
	}
	if row.Message != nil {
		syncStatus.Message = *row.Message
	}
	return syncStatus
}
