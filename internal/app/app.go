// Package app wires the seedsync components together and manages their lifecycle.
package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/stacklok/seedsync/internal/config"
	"github.com/stacklok/seedsync/internal/status"
	pkgsync "github.com/stacklok/seedsync/internal/sync"
	"github.com/stacklok/seedsync/internal/sync/coordinator"
)

// SeedSyncApp encapsulates all components needed to sync event seeding
type SeedSyncApp struct {
	config     *config.Config
	components *AppComponents

	// cleanups run in reverse order on Close
	cleanups []func(context.Context) error
}

// Run syncs the requested events in order
func (app *SeedSyncApp) Run(ctx context.Context, reqs []pkgsync.Request) ([]coordinator.Outcome, error) {
	return app.components.Coordinator.Run(ctx, reqs)
}

// Status returns the recorded sync status of every event
func (app *SeedSyncApp) Status(ctx context.Context) (map[int64]*status.SyncStatus, error) {
	return app.components.StateService.ListSyncStatuses(ctx)
}

// Close releases the database pool and flushes telemetry
func (app *SeedSyncApp) Close(ctx context.Context) error {
	var errs []error
	for i := len(app.cleanups) - 1; i >= 0; i-- {
		if err := app.cleanups[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	app.cleanups = nil

	if err := errors.Join(errs...); err != nil {
		slog.Warn("Shutdown completed with errors", "error", err)
		return err
	}
	return nil
}

// GetConfig returns the application configuration
func (app *SeedSyncApp) GetConfig() *config.Config {
	return app.config
}

// Components returns the wired application components
func (app *SeedSyncApp) Components() *AppComponents {
	return app.components
}
