// Package storagetest holds behavioural tests shared by every storage.Store implementation
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/seedsync/internal/storage"
)

// Factory returns an empty store for one test
type Factory func(t *testing.T) storage.Store

// Run exercises a Store implementation against the storage contract
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, s storage.Store)
	}{
		{"ensure event is idempotent", testEnsureEvent},
		{"unknown records", testNotFound},
		{"seed assignment uniqueness", testSeedAssignments},
		{"competitor lifecycle", testCompetitors},
		{"seed history excludes event", testSeedHistory},
		{"event lock", testLockEvent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newStore(t))
		})
	}
}

func eventParams(externalID int64) storage.EventParams {
	start := time.Date(2026, 2, 1, 18, 0, 0, 0, time.UTC)
	return storage.EventParams{
		ExternalID:           externalID,
		Name:                 "Singles",
		TournamentExternalID: 900,
		TournamentName:       "Weekly",
		TournamentStartAt:    &start,
	}
}

func createCompetitor(t *testing.T, s storage.Store, userID string) *storage.Competitor {
	t.Helper()
	c, err := s.CreateCompetitor(context.Background(), &storage.Competitor{
		ExternalUserID: userID,
		Name:           "Player " + userID,
		Country:        "Japan",
	})
	require.NoError(t, err)
	return c
}

func testEnsureEvent(t *testing.T, s storage.Store) {
	ctx := context.Background()

	first, err := s.EnsureEvent(ctx, eventParams(1))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.NotEqual(t, uuid.Nil, first.TournamentID)
	assert.Equal(t, int64(1), first.ExternalID)
	assert.Equal(t, "Singles", first.Name)

	renamed := eventParams(1)
	renamed.Name = "Renamed"
	again, err := s.EnsureEvent(ctx, renamed)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "Singles", again.Name)

	second, err := s.EnsureEvent(ctx, eventParams(2))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.TournamentID, second.TournamentID)

	got, err := s.GetEventByExternalID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
}

func testNotFound(t *testing.T, s storage.Store) {
	ctx := context.Background()

	_, err := s.GetEventByExternalID(ctx, 404)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.GetCompetitorByExternalUserID(ctx, "nobody")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	seeds, err := s.SeedHistory(ctx, "nobody", uuid.New())
	require.NoError(t, err)
	assert.Empty(t, seeds)

	_, err = s.UpdateCompetitor(ctx, &storage.Competitor{ID: uuid.New(), ExternalUserID: "nobody"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testSeedAssignments(t *testing.T, s storage.Store) {
	ctx := context.Background()

	event, err := s.EnsureEvent(ctx, eventParams(10))
	require.NoError(t, err)
	a := createCompetitor(t, s, "a")
	b := createCompetitor(t, s, "b")
	c := createCompetitor(t, s, "c")

	_, err = s.CreateSeedAssignment(ctx, event.ID, b.ID, 2)
	require.NoError(t, err)
	created, err := s.CreateSeedAssignment(ctx, event.ID, a.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, created.Seed)
	assert.Equal(t, a.ID, created.CompetitorID)

	_, err = s.CreateSeedAssignment(ctx, event.ID, c.ID, 1)
	assert.ErrorIs(t, err, storage.ErrConflict, "duplicate seed")
	_, err = s.CreateSeedAssignment(ctx, event.ID, a.ID, 3)
	assert.ErrorIs(t, err, storage.ErrConflict, "duplicate competitor")

	count, err := s.CountSeedAssignments(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	list, err := s.ListSeedAssignments(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].Seed)
	assert.Equal(t, 2, list[1].Seed)

	deleted, err := s.DeleteSeedAssignments(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	count, err = s.CountSeedAssignments(ctx, event.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func testCompetitors(t *testing.T, s storage.Store) {
	ctx := context.Background()

	created := createCompetitor(t, s, "u1")
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "Player u1", created.Name)

	_, err := s.CreateCompetitor(ctx, &storage.Competitor{ExternalUserID: "u1"})
	assert.ErrorIs(t, err, storage.ErrConflict)

	created.Name = "New Name"
	created.City = "Osaka"
	updated, err := s.UpdateCompetitor(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, created.ID, updated.ID)

	got, err := s.GetCompetitorByExternalUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.Name)
	assert.Equal(t, "Osaka", got.City)
	assert.Equal(t, "Japan", got.Country)
}

func testSeedHistory(t *testing.T, s storage.Store) {
	ctx := context.Background()

	e1, err := s.EnsureEvent(ctx, eventParams(21))
	require.NoError(t, err)
	e2, err := s.EnsureEvent(ctx, eventParams(22))
	require.NoError(t, err)
	e3, err := s.EnsureEvent(ctx, eventParams(23))
	require.NoError(t, err)

	bob := createCompetitor(t, s, "bob")
	for seed, event := range map[int]*storage.Event{5: e1, 9: e2, 1: e3} {
		_, err := s.CreateSeedAssignment(ctx, event.ID, bob.ID, seed)
		require.NoError(t, err)
	}

	seeds, err := s.SeedHistory(ctx, "bob", e3.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{5, 9}, seeds)

	seeds, err = s.SeedHistory(ctx, "bob", uuid.Nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{1, 5, 9}, seeds)
}

func testLockEvent(t *testing.T, s storage.Store) {
	ctx := context.Background()

	unlock, err := s.LockEvent(ctx, 77)
	require.NoError(t, err)

	_, err = s.LockEvent(ctx, 77)
	assert.ErrorIs(t, err, storage.ErrLocked)

	other, err := s.LockEvent(ctx, 78)
	require.NoError(t, err)
	other()

	unlock()
	unlock()

	again, err := s.LockEvent(ctx, 77)
	require.NoError(t, err)
	again()
}
