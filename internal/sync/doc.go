// Package sync orchestrates the synchronization of one event's seeding from the
// platform into the local store.
//
// # Phases
//
// A run moves through the phases of status.SyncPhase:
//
//	Idle -> Cleared | Skipped -> Fetching -> Resolving -> Persisting -> Done
//
// and ends in Failed when fetching, resolving or storage of the event itself fails.
//
//   - Skipped: an incremental run found seed assignments for the event and wrote nothing.
//   - Cleared: a forced run deleted the existing assignments before fetching.
//   - Fetching: every entrant page is requested from the platform.
//   - Resolving: seed conflicts are resolved with the competitors' seed history.
//   - Persisting: each entrant is mapped to a competitor and its seed stored.
//     Entrants that cannot be stored are reported in Result.Skipped and never fail the run.
//
// Runs for the same event are mutually exclusive through storage.Store.LockEvent;
// a second run returns ErrSyncInProgress.
//
// The coordinator subpackage runs batches of events sequentially and records the
// final status and metrics of each run.
package sync
