package app

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stacklok/seedsync/internal/storage"
	"github.com/stacklok/seedsync/internal/sync/coordinator"
	"github.com/stacklok/seedsync/internal/sync/state"
)

// AppComponents groups all application components
//
//nolint:revive // This name is fine
type AppComponents struct {
	// Coordinator runs batches of event syncs
	Coordinator coordinator.Coordinator

	// Store holds events, competitors and seed assignments
	Store storage.Store

	// StateService records the sync status of each event
	StateService state.EventStateService

	// Pool is the database connection pool (optional)
	Pool *pgxpool.Pool
}
