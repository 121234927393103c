// Queries from database/queries/events.sql.

package sqlc

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const getEventByExternalID = `-- name: GetEventByExternalID :one
SELECT id, tournament_id, external_id, name, created_at
FROM event
WHERE external_id = $1
`

func (q *Queries) GetEventByExternalID(ctx context.Context, externalID int64) (Event, error) {
	row := q.db.QueryRow(ctx, getEventByExternalID, externalID)
	var i Event
	err := row.Scan(
		&i.ID,
		&i.TournamentID,
		&i.ExternalID,
		&i.Name,
		&i.CreatedAt,
	)
	return i, err
}

const releaseEventLock = `-- name: ReleaseEventLock :one
SELECT pg_advisory_unlock($1::bigint) AS released
`

func (q *Queries) ReleaseEventLock(ctx context.Context, lockKey int64) (bool, error) {
	row := q.db.QueryRow(ctx, releaseEventLock, lockKey)
	var released bool
	err := row.Scan(&released)
	return released, err
}

const tryEventLock = `-- name: TryEventLock :one
SELECT pg_try_advisory_lock($1::bigint) AS locked
`

func (q *Queries) TryEventLock(ctx context.Context, lockKey int64) (bool, error) {
	row := q.db.QueryRow(ctx, tryEventLock, lockKey)
	var locked bool
	err := row.Scan(&locked)
	return locked, err
}

const upsertEvent = `-- name: UpsertEvent :one
INSERT INTO event (tournament_id, external_id, name)
VALUES ($1, $2, $3)
ON CONFLICT (external_id) DO UPDATE SET external_id = EXCLUDED.external_id
RETURNING id, tournament_id, external_id, name, created_at
`

type UpsertEventParams struct {
	TournamentID uuid.UUID `json:"tournament_id"`
	ExternalID   int64     `json:"external_id"`
	Name         string    `json:"name"`
}

func (q *Queries) UpsertEvent(ctx context.Context, arg UpsertEventParams) (Event, error) {
	row := q.db.QueryRow(ctx, upsertEvent, arg.TournamentID, arg.ExternalID, arg.Name)
	var i Event
	err := row.Scan(
		&i.ID,
		&i.TournamentID,
		&i.ExternalID,
		&i.Name,
		&i.CreatedAt,
	)
	return i, err
}

const upsertTournament = `-- name: UpsertTournament :one
INSERT INTO tournament (external_id, name, start_at)
VALUES ($1, $2, $3)
ON CONFLICT (external_id) DO UPDATE SET external_id = EXCLUDED.external_id
RETURNING id
`

type UpsertTournamentParams struct {
	ExternalID int64      `json:"external_id"`
	Name       string     `json:"name"`
	StartAt    *time.Time `json:"start_at"`
}

// Tournaments are immutable once stored; the no-op update only makes RETURNING yield the row.
func (q *Queries) UpsertTournament(ctx context.Context, arg UpsertTournamentParams) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, upsertTournament, arg.ExternalID, arg.Name, arg.StartAt)
	var id uuid.UUID
	err := row.Scan(&id)
	return id, err
}
