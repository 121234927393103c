package sync

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/seedsync/internal/identity"
	"github.com/stacklok/seedsync/internal/seeding"
	"github.com/stacklok/seedsync/internal/sources"
	sourcemocks "github.com/stacklok/seedsync/internal/sources/mocks"
	"github.com/stacklok/seedsync/internal/status"
	"github.com/stacklok/seedsync/internal/storage"
	"github.com/stacklok/seedsync/internal/storage/inmemory"
	"github.com/stacklok/seedsync/internal/sync/state"
	statemocks "github.com/stacklok/seedsync/internal/sync/state/mocks"
)

const testEventID int64 = 1001

type fixture struct {
	store   storage.Store
	fetcher *sourcemocks.MockFetcher
	states  state.EventStateService
	manager Manager
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := &fixture{
		store:   inmemory.New(),
		fetcher: sourcemocks.NewMockFetcher(ctrl),
		states:  state.NewMemoryStateService(),
	}
	opts = append([]Option{WithStateService(f.states)}, opts...)
	f.manager = NewDefaultSyncManager(
		f.store,
		f.fetcher,
		seeding.NewResolver(seeding.NewScorer(f.store)),
		identity.NewResolver(f.store),
		opts...,
	)
	return f
}

func raw(userID string, seed int) sources.RawEntrant {
	return sources.RawEntrant{
		EntrantID:      "entrant-" + userID,
		Seed:           seed,
		Name:           "Player " + userID,
		ExternalUserID: userID,
	}
}

func fetched(eventID int64, entrants ...sources.RawEntrant) *sources.FetchResult {
	return &sources.FetchResult{
		EventID: eventID,
		Event: &sources.EventInfo{
			ExternalID:           eventID,
			Name:                 "Singles",
			TournamentExternalID: 77,
			TournamentName:       "Major",
			TournamentStartAt:    time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
		},
		Entrants: entrants,
		Pages:    1,
	}
}

// seedsByUser returns the stored seed of each competitor of the event
func seedsByUser(t *testing.T, s storage.Store, eventID int64) map[string]int {
	t.Helper()
	ctx := context.Background()

	event, err := s.GetEventByExternalID(ctx, eventID)
	require.NoError(t, err)
	assignments, err := s.ListSeedAssignments(ctx, event.ID)
	require.NoError(t, err)

	byID := make(map[uuid.UUID]int, len(assignments))
	for _, a := range assignments {
		byID[a.CompetitorID] = a.Seed
	}

	out := make(map[string]int, len(assignments))
	for _, user := range []string{"alice", "bob", "carol", "dave", "erin"} {
		c, err := s.GetCompetitorByExternalUserID(ctx, user)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		require.NoError(t, err)
		if seed, ok := byID[c.ID]; ok {
			out[user] = seed
		}
	}
	return out
}

// withHistory places user on seed in a past event
func withHistory(t *testing.T, s storage.Store, pastEventID int64, user string, seed int) {
	t.Helper()
	ctx := context.Background()

	event, err := s.EnsureEvent(ctx, storage.EventParams{
		ExternalID: pastEventID, Name: "Past", TournamentExternalID: pastEventID, TournamentName: "Past",
	})
	require.NoError(t, err)

	c, err := s.GetCompetitorByExternalUserID(ctx, user)
	if errors.Is(err, storage.ErrNotFound) {
		c, err = s.CreateCompetitor(ctx, &storage.Competitor{ExternalUserID: user, Name: user})
	}
	require.NoError(t, err)

	_, err = s.CreateSeedAssignment(ctx, event.ID, c.ID, seed)
	require.NoError(t, err)
}

func TestPerformSync_NewEvent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.fetcher.EXPECT().FetchAll(gomock.Any(), testEventID).
		Return(fetched(testEventID, raw("alice", 1), raw("bob", 2), raw("carol", 3)), nil)

	result, err := f.manager.PerformSync(context.Background(), Request{EventID: testEventID})
	require.NoError(t, err)
	assert.Equal(t, status.SyncPhaseDone, result.Phase)
	assert.Equal(t, 3, result.Fetched)
	assert.Equal(t, 3, result.Created)
	assert.Zero(t, result.Conflicts)
	assert.Empty(t, result.Skipped)

	assert.Equal(t, map[string]int{"alice": 1, "bob": 2, "carol": 3}, seedsByUser(t, f.store, testEventID))

	recorded, err := f.states.GetSyncStatus(context.Background(), testEventID)
	require.NoError(t, err)
	assert.Equal(t, status.SyncPhaseDone, recorded.Phase)
}

func TestPerformSync_ConflictResolution(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		history  func(t *testing.T, s storage.Store)
		entrants []sources.RawEntrant
		want     map[string]int
	}{
		{
			name: "higher history score keeps the seed",
			history: func(t *testing.T, s storage.Store) {
				t.Helper()
				withHistory(t, s, 50, "bob", 1)
			},
			entrants: []sources.RawEntrant{raw("alice", 1), raw("bob", 1), raw("carol", 3)},
			want:     map[string]int{"bob": 1, "alice": 2, "carol": 3},
		},
		{
			name:     "tie keeps response order",
			history:  func(_ *testing.T, _ storage.Store) {},
			entrants: []sources.RawEntrant{raw("alice", 1), raw("bob", 1), raw("carol", 3)},
			want:     map[string]int{"alice": 1, "bob": 2, "carol": 3},
		},
		{
			name: "losers overflow past the highest claim",
			history: func(t *testing.T, s storage.Store) {
				t.Helper()
				withHistory(t, s, 60, "carol", 2)
			},
			entrants: []sources.RawEntrant{raw("alice", 1), raw("bob", 2), raw("carol", 2)},
			want:     map[string]int{"alice": 1, "carol": 2, "bob": 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			tt.history(t, f.store)
			f.fetcher.EXPECT().FetchAll(gomock.Any(), testEventID).Return(fetched(testEventID, tt.entrants...), nil)

			result, err := f.manager.PerformSync(context.Background(), Request{EventID: testEventID})
			require.NoError(t, err)
			assert.Equal(t, status.SyncPhaseDone, result.Phase)
			assert.Equal(t, 1, result.Conflicts)
			assert.Equal(t, 1, result.Reassigned)
			assert.Equal(t, len(tt.entrants), result.Created)
			assert.Equal(t, tt.want, seedsByUser(t, f.store, testEventID))
		})
	}
}

func TestPerformSync_SkipsSeededEvent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.fetcher.EXPECT().FetchAll(gomock.Any(), testEventID).
		Return(fetched(testEventID, raw("alice", 1)), nil).Times(1)

	ctx := context.Background()
	_, err := f.manager.PerformSync(ctx, Request{EventID: testEventID})
	require.NoError(t, err)

	result, err := f.manager.PerformSync(ctx, Request{EventID: testEventID})
	require.NoError(t, err)
	assert.Equal(t, status.SyncPhaseSkipped, result.Phase)
	assert.Zero(t, result.Created)
	assert.Zero(t, result.Fetched)
}

func TestPerformSync_ForceClearsAndResyncs(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	gomock.InOrder(
		f.fetcher.EXPECT().FetchAll(gomock.Any(), testEventID).
			Return(fetched(testEventID, raw("alice", 1), raw("bob", 2), raw("carol", 3)), nil),
		f.fetcher.EXPECT().FetchAll(gomock.Any(), testEventID).
			Return(fetched(testEventID, raw("dave", 1), raw("alice", 2)), nil),
	)

	_, err := f.manager.PerformSync(ctx, Request{EventID: testEventID})
	require.NoError(t, err)

	result, err := f.manager.PerformSync(ctx, Request{EventID: testEventID, Force: true})
	require.NoError(t, err)
	assert.Equal(t, status.SyncPhaseDone, result.Phase)
	assert.Equal(t, 3, result.Cleared)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, map[string]int{"dave": 1, "alice": 2}, seedsByUser(t, f.store, testEventID))
}

func TestPerformSync_ForceOnUnknownEvent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.fetcher.EXPECT().FetchAll(gomock.Any(), testEventID).Return(fetched(testEventID, raw("alice", 1)), nil)

	result, err := f.manager.PerformSync(context.Background(), Request{EventID: testEventID, Force: true})
	require.NoError(t, err)
	assert.Zero(t, result.Cleared)
	assert.Equal(t, 1, result.Created)
}

func TestPerformSync_ForcedRerunIsDeterministic(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	withHistory(t, f.store, 40, "bob", 5)
	entrants := []sources.RawEntrant{
		raw("alice", 1), raw("bob", 1), raw("carol", 2), raw("dave", 4), raw("erin", 4),
	}
	f.fetcher.EXPECT().FetchAll(gomock.Any(), testEventID).
		Return(fetched(testEventID, entrants...), nil).Times(2)

	ctx := context.Background()
	first, err := f.manager.PerformSync(ctx, Request{EventID: testEventID, Force: true})
	require.NoError(t, err)
	assert.Equal(t, 2, first.Conflicts)
	firstSeeds := seedsByUser(t, f.store, testEventID)

	second, err := f.manager.PerformSync(ctx, Request{EventID: testEventID, Force: true})
	require.NoError(t, err)
	assert.Equal(t, len(entrants), second.Cleared)
	assert.Equal(t, first.Conflicts, second.Conflicts)
	assert.Equal(t, first.Reassigned, second.Reassigned)

	assert.Equal(t, firstSeeds, seedsByUser(t, f.store, testEventID))
	assert.Equal(t, map[string]int{"bob": 1, "carol": 2, "alice": 3, "dave": 4, "erin": 5}, firstSeeds)
}

func TestPerformSync_FetchErrorPropagates(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	fetchErr := fmt.Errorf("event %d: %w", testEventID, sources.ErrEventNotFound)
	f.fetcher.EXPECT().FetchAll(gomock.Any(), testEventID).Return(nil, fetchErr)

	result, err := f.manager.PerformSync(context.Background(), Request{EventID: testEventID})
	require.Error(t, err)
	assert.Equal(t, fetchErr, err)
	assert.ErrorIs(t, err, sources.ErrEventNotFound)
	require.NotNil(t, result)
	assert.Equal(t, status.SyncPhaseFailed, result.Phase)

	recorded, err := f.states.GetSyncStatus(context.Background(), testEventID)
	require.NoError(t, err)
	assert.Equal(t, status.SyncPhaseFailed, recorded.Phase)

	_, err = f.store.GetEventByExternalID(context.Background(), testEventID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPerformSync_EmptyEvent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	empty := fetched(testEventID)
	empty.Excluded = 2
	f.fetcher.EXPECT().FetchAll(gomock.Any(), testEventID).Return(empty, nil)

	result, err := f.manager.PerformSync(context.Background(), Request{EventID: testEventID})
	require.NoError(t, err)
	assert.Equal(t, status.SyncPhaseDone, result.Phase)
	assert.Zero(t, result.Created)
	assert.Equal(t, 2, result.Excluded)

	_, err = f.store.GetEventByExternalID(context.Background(), testEventID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPerformSync_SkipsUnpersistableEntrants(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ghost := raw("", 3)
	ghost.Name = "Ghost"
	f.fetcher.EXPECT().FetchAll(gomock.Any(), testEventID).
		Return(fetched(testEventID, raw("alice", 1), raw("alice", 2), ghost), nil)

	result, err := f.manager.PerformSync(context.Background(), Request{EventID: testEventID})
	require.NoError(t, err)
	assert.Equal(t, status.SyncPhaseDone, result.Phase)
	assert.Equal(t, 1, result.Created)
	require.Len(t, result.Skipped, 2)

	assert.Equal(t, "alice", result.Skipped[0].ExternalUserID)
	assert.Equal(t, 2, result.Skipped[0].Seed)
	assert.Contains(t, result.Skipped[0].Reason, storage.ErrConflict.Error())

	assert.Equal(t, "Ghost", result.Skipped[1].Name)
	assert.Contains(t, result.Skipped[1].Reason, identity.ErrMissingExternalID.Error())
}

func TestPerformSync_EventLocked(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	unlock, err := f.store.LockEvent(context.Background(), testEventID)
	require.NoError(t, err)
	defer unlock()

	result, err := f.manager.PerformSync(context.Background(), Request{EventID: testEventID})
	require.ErrorIs(t, err, ErrSyncInProgress)
	assert.Nil(t, result)
}

type failingResolver struct{ err error }

func (r failingResolver) Resolve(context.Context, uuid.UUID, []sources.RawEntrant) (*seeding.Resolution, error) {
	return nil, r.err
}

func TestPerformSync_ResolverErrorFails(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	store := inmemory.New()
	fetcher := sourcemocks.NewMockFetcher(ctrl)
	fetcher.EXPECT().FetchAll(gomock.Any(), testEventID).
		Return(fetched(testEventID, raw("alice", 1), raw("bob", 1)), nil)

	boom := errors.New("history unavailable")
	m := NewDefaultSyncManager(store, fetcher, failingResolver{err: boom}, identity.NewResolver(store))

	result, err := m.PerformSync(context.Background(), Request{EventID: testEventID})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed to resolve seed conflicts")
	assert.Equal(t, status.SyncPhaseFailed, result.Phase)
}

func TestPerformSync_RecordsPhaseTransitions(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	states := statemocks.NewMockEventStateService(ctrl)

	var phases []status.SyncPhase
	states.EXPECT().UpdateStatusAtomically(gomock.Any(), testEventID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, fn func(*status.SyncStatus) bool) (bool, error) {
			s := &status.SyncStatus{}
			changed := fn(s)
			phases = append(phases, s.Phase)
			return changed, nil
		}).AnyTimes()

	f := newFixture(t, WithStateService(states))
	f.fetcher.EXPECT().FetchAll(gomock.Any(), testEventID).Return(fetched(testEventID, raw("alice", 1)), nil)

	_, err := f.manager.PerformSync(context.Background(), Request{EventID: testEventID})
	require.NoError(t, err)
	assert.Equal(t, []status.SyncPhase{
		status.SyncPhaseFetching,
		status.SyncPhaseResolving,
		status.SyncPhasePersisting,
		status.SyncPhaseDone,
	}, phases)
}

func TestPerformSync_StateErrorsDoNotFailRun(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	states := statemocks.NewMockEventStateService(ctrl)
	states.EXPECT().UpdateStatusAtomically(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(false, errors.New("status table missing")).AnyTimes()

	f := newFixture(t, WithStateService(states))
	f.fetcher.EXPECT().FetchAll(gomock.Any(), testEventID).Return(fetched(testEventID, raw("alice", 1)), nil)

	result, err := f.manager.PerformSync(context.Background(), Request{EventID: testEventID})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
}

func TestPerformSync_CancelledWhilePersisting(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	f.fetcher.EXPECT().FetchAll(gomock.Any(), testEventID).
		DoAndReturn(func(context.Context, int64) (*sources.FetchResult, error) {
			cancel()
			return fetched(testEventID, raw("alice", 1), raw("bob", 2)), nil
		})

	result, err := f.manager.PerformSync(ctx, Request{EventID: testEventID})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, status.SyncPhaseFailed, result.Phase)
	assert.Zero(t, result.Created)

	recorded, err := f.states.GetSyncStatus(context.Background(), testEventID)
	require.NoError(t, err)
	assert.Equal(t, status.SyncPhaseFailed, recorded.Phase)
}

func TestPerformSync_Tracing(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	f := newFixture(t, WithTracer(provider.Tracer(SyncTracerName)))
	f.fetcher.EXPECT().FetchAll(gomock.Any(), testEventID).Return(fetched(testEventID, raw("alice", 1)), nil)

	_, err := f.manager.PerformSync(context.Background(), Request{EventID: testEventID})
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "sync.PerformSync", spans[0].Name())

	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "1001", attrs["event.id"])
	assert.Equal(t, string(status.SyncPhaseDone), attrs["sync.phase"])
	assert.Len(t, spans[0].Events(), 4)
}
