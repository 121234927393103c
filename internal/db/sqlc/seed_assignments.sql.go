// Queries from database/queries/seed_assignments.sql.

package sqlc

import (
	"context"

	"github.com/google/uuid"
)

const countSeedAssignments = `-- name: CountSeedAssignments :one
SELECT COUNT(*) FROM seed_assignment WHERE event_id = $1
`

func (q *Queries) CountSeedAssignments(ctx context.Context, eventID uuid.UUID) (int64, error) {
	row := q.db.QueryRow(ctx, countSeedAssignments, eventID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const deleteSeedAssignments = `-- name: DeleteSeedAssignments :execrows
DELETE FROM seed_assignment WHERE event_id = $1
`

func (q *Queries) DeleteSeedAssignments(ctx context.Context, eventID uuid.UUID) (int64, error) {
	result, err := q.db.Exec(ctx, deleteSeedAssignments, eventID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const insertSeedAssignment = `-- name: InsertSeedAssignment :one
INSERT INTO seed_assignment (event_id, competitor_id, seed)
VALUES ($1, $2, $3)
RETURNING id, event_id, competitor_id, seed, created_at
`

type InsertSeedAssignmentParams struct {
	EventID      uuid.UUID `json:"event_id"`
	CompetitorID uuid.UUID `json:"competitor_id"`
	Seed         int32     `json:"seed"`
}

func (q *Queries) InsertSeedAssignment(ctx context.Context, arg InsertSeedAssignmentParams) (SeedAssignment, error) {
	row := q.db.QueryRow(ctx, insertSeedAssignment, arg.EventID, arg.CompetitorID, arg.Seed)
	var i SeedAssignment
	err := row.Scan(
		&i.ID,
		&i.EventID,
		&i.CompetitorID,
		&i.Seed,
		&i.CreatedAt,
	)
	return i, err
}

const listSeedAssignments = `-- name: ListSeedAssignments :many
SELECT id, event_id, competitor_id, seed, created_at
FROM seed_assignment
WHERE event_id = $1
ORDER BY seed
`

func (q *Queries) ListSeedAssignments(ctx context.Context, eventID uuid.UUID) ([]SeedAssignment, error) {
	rows, err := q.db.Query(ctx, listSeedAssignments, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []SeedAssignment{}
	for rows.Next() {
		var i SeedAssignment
		if err := rows.Scan(
			&i.ID,
			&i.EventID,
			&i.CompetitorID,
			&i.Seed,
			&i.CreatedAt,
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

const listSeedHistory = `-- name: ListSeedHistory :many
SELECT sa.seed
FROM seed_assignment sa
JOIN competitor c ON c.id = sa.competitor_id
WHERE c.external_user_id = $1
  AND sa.event_id <> $2
ORDER BY sa.seed
`

type ListSeedHistoryParams struct {
	ExternalUserID *string   `json:"external_user_id"`
	ExcludeEventID uuid.UUID `json:"exclude_event_id"`
}

func (q *Queries) ListSeedHistory(ctx context.Context, arg ListSeedHistoryParams) ([]int32, error) {
	rows, err := q.db.Query(ctx, listSeedHistory, arg.ExternalUserID, arg.ExcludeEventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []int32{}
	for rows.Next() {
		var seed int32
		if err := rows.Scan(&seed); err != nil {
			return nil, err
		}
		items = append(items, seed)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
