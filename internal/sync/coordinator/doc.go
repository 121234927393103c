// Package coordinator runs event syncs in batches.
//
// It sits on top of sync.Manager and handles:
//
//   - Sequential execution of the requested events in order
//   - A context aware pause between consecutive events
//   - Recording the final sync status of each event
//   - Sync metrics
//
// # Architecture
//
// The coordinator separates concerns between:
//
//   - internal/sync: Domain logic (lock, clear or skip, fetch, resolve, persist)
//   - internal/sync/coordinator: Orchestration (ordering, pacing, status bookkeeping)
//   - cmd/seedsync/app: CLI lifecycle (builds the batch and prints the summary)
//
// # Usage Example
//
//	syncManager := sync.NewDefaultSyncManager(store, fetcher, resolver, identities)
//	stateService := state.NewDBStateService(pool)
//
//	c := coordinator.New(syncManager, stateService, cfg)
//	outcomes, err := c.Run(ctx, []sync.Request{{EventID: 1001}, {EventID: 1002, Force: true}})
//
// # Status Recording
//
// The manager records each phase transition as it happens. When a run ends the
// coordinator writes the final phase together with the attempt bookkeeping:
//
//   - Failed runs store the error message and increment AttemptCount
//   - Done runs reset AttemptCount and store LastSyncTime and the assignment counts
//   - Skipped runs reset AttemptCount and keep the counts of the last successful run
//
// A run rejected with sync.ErrSyncInProgress leaves the status untouched, as
// it belongs to the run holding the event lock.
//
// # Error Handling
//
// A failing event never stops the batch. Only cancellation of the context ends
// a batch early; the outcomes collected so far are returned with the context error.
package coordinator
