package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/seedsync/internal/otel"
	"github.com/stacklok/seedsync/internal/seeding"
	"github.com/stacklok/seedsync/internal/sources"
	"github.com/stacklok/seedsync/internal/status"
	"github.com/stacklok/seedsync/internal/storage"
	"github.com/stacklok/seedsync/internal/sync/state"
)

// SyncTracerName is the name used for the sync manager tracer
const SyncTracerName = "github.com/stacklok/seedsync/sync"

// ErrSyncInProgress is returned when another run holds the event
var ErrSyncInProgress = errors.New("sync already in progress")

// Request selects the event to sync and how
type Request struct {
	// EventID is the platform event id
	EventID int64

	// Force deletes existing seed assignments and syncs again
	Force bool

	// RefreshProfiles overwrites stored competitor profiles with the platform data
	RefreshProfiles bool
}

// SkippedEntrant is an entrant that could not be persisted
type SkippedEntrant struct {
	Name           string `json:"name"`
	ExternalUserID string `json:"externalUserId,omitempty"`
	Seed           int    `json:"seed"`
	Reason         string `json:"reason"`
}

// Result is the outcome of one run
type Result struct {
	EventID    int64            `json:"eventId"`
	Phase      status.SyncPhase `json:"phase"`
	Cleared    int              `json:"cleared,omitempty"`
	Fetched    int              `json:"fetched"`
	Excluded   int              `json:"excluded,omitempty"`
	Conflicts  int              `json:"conflicts"`
	Reassigned int              `json:"reassigned"`
	Created    int              `json:"created"`
	Skipped    []SkippedEntrant `json:"skipped,omitempty"`
}

// Manager runs the sync of a single event
//
//go:generate mockgen -destination=mocks/mock_manager.go -package=mocks -source=manager.go Manager
type Manager interface {
	// PerformSync runs the sync state machine for one event.
	// Once the event lock is taken the Result is returned even on error, with Phase Failed.
	PerformSync(ctx context.Context, req Request) (*Result, error)
}

// ConflictResolver assigns unique seeds to the fetched entrants
type ConflictResolver interface {
	Resolve(ctx context.Context, eventID uuid.UUID, entrants []sources.RawEntrant) (*seeding.Resolution, error)
}

// IdentityResolver maps an entrant onto a local competitor
type IdentityResolver interface {
	Resolve(ctx context.Context, entrant sources.RawEntrant, refreshProfile bool) (*storage.Competitor, error)
}

// defaultSyncManager is the default implementation of Manager
type defaultSyncManager struct {
	store     storage.Store
	fetcher   sources.Fetcher
	conflicts ConflictResolver
	identity  IdentityResolver
	statusSvc state.EventStateService
	tracer    trace.Tracer
}

// Option configures the sync manager
type Option func(*defaultSyncManager)

// WithStateService records phase transitions in svc
func WithStateService(svc state.EventStateService) Option {
	return func(m *defaultSyncManager) {
		m.statusSvc = svc
	}
}

// WithTracer sets the OpenTelemetry tracer for the sync manager.
// If not set, tracing will be disabled (no-op).
func WithTracer(tracer trace.Tracer) Option {
	return func(m *defaultSyncManager) {
		m.tracer = tracer
	}
}

// NewDefaultSyncManager creates a new defaultSyncManager
func NewDefaultSyncManager(
	store storage.Store,
	fetcher sources.Fetcher,
	conflicts ConflictResolver,
	identity IdentityResolver,
	opts ...Option,
) Manager {
	m := &defaultSyncManager{
		store:     store,
		fetcher:   fetcher,
		conflicts: conflicts,
		identity:  identity,
		statusSvc: state.NewMemoryStateService(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// PerformSync executes the complete sync operation for one event
func (m *defaultSyncManager) PerformSync(ctx context.Context, req Request) (result *Result, err error) {
	ctx, span := otel.StartSpan(ctx, m.tracer, "sync.PerformSync",
		trace.WithAttributes(
			otel.AttrEventID.Int64(req.EventID),
			otel.AttrSyncForced.Bool(req.Force),
		),
	)
	defer otel.EndSpan(span, &err)

	unlock, err := m.store.LockEvent(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, storage.ErrLocked) {
			return nil, fmt.Errorf("event %d: %w", req.EventID, ErrSyncInProgress)
		}
		return nil, fmt.Errorf("failed to lock event %d: %w", req.EventID, err)
	}
	defer unlock()

	result = &Result{EventID: req.EventID, Phase: status.SyncPhaseIdle}
	defer func() {
		span.SetAttributes(otel.AttrSyncPhase.String(string(result.Phase)))
	}()

	if err := m.run(ctx, req, result); err != nil {
		m.enterPhase(context.WithoutCancel(ctx), result, status.SyncPhaseFailed)
		return result, err
	}
	return result, nil
}

func (m *defaultSyncManager) run(ctx context.Context, req Request, result *Result) error {
	event, err := m.store.GetEventByExternalID(ctx, req.EventID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to look up event %d: %w", req.EventID, err)
	}

	if event != nil {
		if req.Force {
			cleared, err := m.store.DeleteSeedAssignments(ctx, event.ID)
			if err != nil {
				return fmt.Errorf("failed to clear seed assignments of event %d: %w", req.EventID, err)
			}
			result.Cleared = cleared
			m.enterPhase(ctx, result, status.SyncPhaseCleared)
			slog.Info("Cleared seed assignments for forced sync", "event_id", req.EventID, "cleared", cleared)
		} else {
			existing, err := m.store.CountSeedAssignments(ctx, event.ID)
			if err != nil {
				return fmt.Errorf("failed to count seed assignments of event %d: %w", req.EventID, err)
			}
			if existing > 0 {
				m.enterPhase(ctx, result, status.SyncPhaseSkipped)
				slog.Info("Event already seeded, skipping", "event_id", req.EventID, "assignments", existing)
				return nil
			}
		}
	}

	m.enterPhase(ctx, result, status.SyncPhaseFetching)
	fetched, err := m.fetcher.FetchAll(ctx, req.EventID)
	if err != nil {
		return err
	}
	result.Fetched = len(fetched.Entrants)
	result.Excluded = fetched.Excluded

	if len(fetched.Entrants) == 0 {
		m.enterPhase(ctx, result, status.SyncPhaseDone)
		slog.Info("Event has no seeded entrants", "event_id", req.EventID, "excluded", fetched.Excluded)
		return nil
	}

	if event == nil {
		if fetched.Event == nil {
			return fmt.Errorf("platform returned no metadata for event %d", req.EventID)
		}
		event, err = m.store.EnsureEvent(ctx, eventParams(fetched.Event))
		if err != nil {
			return fmt.Errorf("failed to store event %d: %w", req.EventID, err)
		}
	}

	m.enterPhase(ctx, result, status.SyncPhaseResolving)
	resolution, err := m.conflicts.Resolve(ctx, event.ID, fetched.Entrants)
	if err != nil {
		return fmt.Errorf("failed to resolve seed conflicts of event %d: %w", req.EventID, err)
	}
	result.Conflicts = len(resolution.Conflicts)
	result.Reassigned = resolution.Reassigned

	m.enterPhase(ctx, result, status.SyncPhasePersisting)
	for _, resolved := range resolution.Entrants {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.persist(ctx, event, resolved, req.RefreshProfiles, result)
	}

	m.enterPhase(ctx, result, status.SyncPhaseDone)
	return nil
}

// persist stores one resolved entrant; failures are recorded on the result
func (m *defaultSyncManager) persist(
	ctx context.Context,
	event *storage.Event,
	resolved seeding.ResolvedEntrant,
	refreshProfile bool,
	result *Result,
) {
	entrant := resolved.Entrant

	competitor, err := m.identity.Resolve(ctx, entrant, refreshProfile)
	if err != nil {
		m.skip(result, resolved, err)
		return
	}

	if _, err := m.store.CreateSeedAssignment(ctx, event.ID, competitor.ID, resolved.Seed); err != nil {
		m.skip(result, resolved, err)
		return
	}
	result.Created++
}

func (*defaultSyncManager) skip(result *Result, resolved seeding.ResolvedEntrant, err error) {
	entrant := resolved.Entrant
	slog.Warn("Skipping entrant",
		"event_id", result.EventID,
		"name", entrant.Name,
		"user_id", entrant.ExternalUserID,
		"seed", resolved.Seed,
		"reason", err.Error(),
	)
	result.Skipped = append(result.Skipped, SkippedEntrant{
		Name:           entrant.Name,
		ExternalUserID: entrant.ExternalUserID,
		Seed:           resolved.Seed,
		Reason:         err.Error(),
	})
}

// enterPhase moves the run to phase and records the transition; recording is best effort
func (m *defaultSyncManager) enterPhase(ctx context.Context, result *Result, phase status.SyncPhase) {
	result.Phase = phase
	trace.SpanFromContext(ctx).AddEvent("phase " + string(phase))
	slog.Debug("Sync phase", "event_id", result.EventID, "phase", phase)

	_, err := m.statusSvc.UpdateStatusAtomically(ctx, result.EventID, func(s *status.SyncStatus) bool {
		s.Phase = phase
		return true
	})
	if err != nil {
		slog.Warn("Failed to record sync phase", "event_id", result.EventID, "phase", phase, "error", err)
	}
}

func eventParams(info *sources.EventInfo) storage.EventParams {
	params := storage.EventParams{
		ExternalID:           info.ExternalID,
		Name:                 info.Name,
		TournamentExternalID: info.TournamentExternalID,
		TournamentName:       info.TournamentName,
	}
	if !info.TournamentStartAt.IsZero() {
		start := info.TournamentStartAt
		params.TournamentStartAt = &start
	}
	return params
}
