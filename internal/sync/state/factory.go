package state

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stacklok/seedsync/internal/status"
)

// NewStateService creates an EventStateService for the configured storage.
//
// With a database pool, sync status lives in PostgreSQL next to the seed data.
// Without one, statuses are kept in statusDir when it is set, and in memory otherwise.
func NewStateService(ctx context.Context, pool *pgxpool.Pool, statusDir string) (EventStateService, error) {
	switch {
	case pool != nil:
		return NewDBStateService(pool), nil
	case statusDir != "":
		return NewFileStateService(ctx, status.NewFileStatusPersistence(statusDir))
	default:
		return NewMemoryStateService(), nil
	}
}
