package inmemory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/seedsync/internal/storage"
	"github.com/stacklok/seedsync/internal/storage/storagetest"
)

func TestStore(t *testing.T) {
	t.Parallel()

	storagetest.Run(t, func(_ *testing.T) storage.Store {
		return New()
	})
}

func TestStore_ReturnsCopies(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := New(WithClock(func() time.Time { return fixed }))
	ctx := context.Background()

	c, err := s.CreateCompetitor(ctx, &storage.Competitor{ExternalUserID: "u"})
	require.NoError(t, err)
	assert.Equal(t, fixed, c.CreatedAt)

	c.Name = "mutated"
	got, err := s.GetCompetitorByExternalUserID(ctx, "u")
	require.NoError(t, err)
	assert.Empty(t, got.Name)
}
