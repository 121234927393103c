// Queries from database/queries/sync_status.sql.

package sqlc

import (
	"context"
	"time"
)

const getEventSyncStatus = `-- name: GetEventSyncStatus :one
SELECT event_external_id, phase, message, last_attempt, attempt_count, last_sync_time, assignment_count, skipped_count, updated_at FROM event_sync_status WHERE event_external_id = $1
`

func (q *Queries) GetEventSyncStatus(ctx context.Context, eventExternalID int64) (EventSyncStatus, error) {
	row := q.db.QueryRow(ctx, getEventSyncStatus, eventExternalID)
	var i EventSyncStatus
	err := row.Scan(
		&i.EventExternalID,
		&i.Phase,
		&i.Message,
		&i.LastAttempt,
		&i.AttemptCount,
		&i.LastSyncTime,
		&i.AssignmentCount,
		&i.SkippedCount,
		&i.UpdatedAt,
	)
	return i, err
}

const getEventSyncStatusForUpdate = `-- name: GetEventSyncStatusForUpdate :one
SELECT event_external_id, phase, message, last_attempt, attempt_count, last_sync_time, assignment_count, skipped_count, updated_at FROM event_sync_status WHERE event_external_id = $1 FOR UPDATE
`

func (q *Queries) GetEventSyncStatusForUpdate(ctx context.Context, eventExternalID int64) (EventSyncStatus, error) {
	row := q.db.QueryRow(ctx, getEventSyncStatusForUpdate, eventExternalID)
	var i EventSyncStatus
	err := row.Scan(
		&i.EventExternalID,
		&i.Phase,
		&i.Message,
		&i.LastAttempt,
		&i.AttemptCount,
		&i.LastSyncTime,
		&i.AssignmentCount,
		&i.SkippedCount,
		&i.UpdatedAt,
	)
	return i, err
}

const initializeEventSyncStatus = `-- name: InitializeEventSyncStatus :exec
INSERT INTO event_sync_status (event_external_id, phase)
VALUES ($1, 'Idle')
ON CONFLICT (event_external_id) DO NOTHING
`

func (q *Queries) InitializeEventSyncStatus(ctx context.Context, eventExternalID int64) error {
	_, err := q.db.Exec(ctx, initializeEventSyncStatus, eventExternalID)
	return err
}

const listEventSyncStatuses = `-- name: ListEventSyncStatuses :many
SELECT event_external_id, phase, message, last_attempt, attempt_count, last_sync_time, assignment_count, skipped_count, updated_at FROM event_sync_status ORDER BY event_external_id
`

func (q *Queries) ListEventSyncStatuses(ctx context.Context) ([]EventSyncStatus, error) {
	rows, err := q.db.Query(ctx, listEventSyncStatuses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []EventSyncStatus{}
	for rows.Next() {
		var i EventSyncStatus
		if err := rows.Scan(
			&i.EventExternalID,
			&i.Phase,
			&i.Message,
			&i.LastAttempt,
			&i.AttemptCount,
			&i.LastSyncTime,
			&i.AssignmentCount,
			&i.SkippedCount,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertEventSyncStatus = `-- name: UpsertEventSyncStatus :exec
INSERT INTO event_sync_status (
    event_external_id, phase, message, last_attempt, attempt_count,
    last_sync_time, assignment_count, skipped_count, updated_at
) VALUES (
    $1, $2, $3, $4,
    $5, $6, $7,
    $8, NOW()
)
ON CONFLICT (event_external_id) DO UPDATE SET
    phase = EXCLUDED.phase,
    message = EXCLUDED.message,
    last_attempt = EXCLUDED.last_attempt,
    attempt_count = EXCLUDED.attempt_count,
    last_sync_time = EXCLUDED.last_sync_time,
    assignment_count = EXCLUDED.assignment_count,
    skipped_count = EXCLUDED.skipped_count,
    updated_at = NOW()
`

type UpsertEventSyncStatusParams struct {
	EventExternalID int64      `json:"event_external_id"`
	Phase           string     `json:"phase"`
	Message         *string    `json:"message"`
	LastAttempt     *time.Time `json:"last_attempt"`
	AttemptCount    int32      `json:"attempt_count"`
	LastSyncTime    *time.Time `json:"last_sync_time"`
	AssignmentCount int32      `json:"assignment_count"`
	SkippedCount    int32      `json:"skipped_count"`
}

func (q *Queries) UpsertEventSyncStatus(ctx context.Context, arg UpsertEventSyncStatusParams) error {
	_, err := q.db.Exec(ctx, upsertEventSyncStatus,
		arg.EventExternalID,
		arg.Phase,
		arg.Message,
		arg.LastAttempt,
		arg.AttemptCount,
		arg.LastSyncTime,
		arg.AssignmentCount,
		arg.SkippedCount,
	)
	return err
}
