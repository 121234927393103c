// Package status defines the phases of an event sync and the status recorded for each event.
package status

import "time"

// SyncPhase is a state of the event sync state machine
type SyncPhase string

const (
	// SyncPhaseIdle means no sync has run for the event yet
	SyncPhaseIdle SyncPhase = "Idle"

	// SyncPhaseCleared means existing seed assignments were deleted for a forced resync
	SyncPhaseCleared SyncPhase = "Cleared"

	// SyncPhaseSkipped means an incremental sync found existing assignments and did nothing
	SyncPhaseSkipped SyncPhase = "Skipped"

	// SyncPhaseFetching means entrants are being retrieved from the platform
	SyncPhaseFetching SyncPhase = "Fetching"

	// SyncPhaseResolving means seed conflicts are being resolved
	SyncPhaseResolving SyncPhase = "Resolving"

	// SyncPhasePersisting means seed assignments are being written
	SyncPhasePersisting SyncPhase = "Persisting"

	// SyncPhaseDone means the sync completed
	SyncPhaseDone SyncPhase = "Done"

	// SyncPhaseFailed means the sync aborted on an unrecoverable error
	SyncPhaseFailed SyncPhase = "Failed"
)

// IsTerminal reports whether a run ends in this phase
func (p SyncPhase) IsTerminal() bool {
	switch p {
	case SyncPhaseSkipped, SyncPhaseDone, SyncPhaseFailed:
		return true
	default:
		return false
	}
}

// SyncStatus is the last recorded sync state of one event
type SyncStatus struct {
	// Phase is the phase the last run ended in
	Phase SyncPhase `yaml:"phase" json:"phase"`

	// Message carries the failure reason of a failed run
	Message string `yaml:"message,omitempty" json:"message,omitempty"`

	// LastAttempt is the start time of the last run
	LastAttempt *time.Time `yaml:"lastAttempt,omitempty" json:"lastAttempt,omitempty"`

	// AttemptCount is the number of failed runs since the last success
	AttemptCount int `yaml:"attemptCount,omitempty" json:"attemptCount,omitempty"`

	// LastSyncTime is the end time of the last successful run
	LastSyncTime *time.Time `yaml:"lastSyncTime,omitempty" json:"lastSyncTime,omitempty"`

	// AssignmentCount is the number of seed assignments created by the last successful run
	AssignmentCount int `yaml:"assignmentCount,omitempty" json:"assignmentCount,omitempty"`

	// SkippedCount is the number of entrants that could not be persisted in the last run
	SkippedCount int `yaml:"skippedCount,omitempty" json:"skippedCount,omitempty"`
}
