package status

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEventID int64 = 4242

func TestFileStatusPersistence_SaveAndLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := NewFileStatusPersistence(dir)
	ctx := context.Background()

	loaded, err := p.LoadStatus(ctx, testEventID)
	require.NoError(t, err)
	assert.Equal(t, &SyncStatus{}, loaded)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	saved := &SyncStatus{
		Phase:           SyncPhaseDone,
		LastAttempt:     &now,
		LastSyncTime:    &now,
		AssignmentCount: 32,
		SkippedCount:    1,
	}
	require.NoError(t, p.SaveStatus(ctx, testEventID, saved))

	_, err = os.Stat(filepath.Join(dir, "4242", StatusFileName))
	require.NoError(t, err)

	loaded, err = p.LoadStatus(ctx, testEventID)
	require.NoError(t, err)
	assert.Equal(t, saved.Phase, loaded.Phase)
	assert.Equal(t, 32, loaded.AssignmentCount)
	assert.Equal(t, 1, loaded.SkippedCount)
	require.NotNil(t, loaded.LastSyncTime)
	assert.True(t, now.Equal(*loaded.LastSyncTime))
}

func TestFileStatusPersistence_LoadCorrupt(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "7"), 0750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "7", StatusFileName), []byte("{not json"), 0600))

	_, err := NewFileStatusPersistence(dir).LoadStatus(context.Background(), 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal status data for event 7")
}

func TestFileStatusPersistence_LoadAllStatus(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := NewFileStatusPersistence(dir)
	ctx := context.Background()

	require.NoError(t, p.SaveStatus(ctx, 1, &SyncStatus{Phase: SyncPhaseDone}))
	require.NoError(t, p.SaveStatus(ctx, 2, &SyncStatus{Phase: SyncPhaseFailed, Message: "boom"}))
	// Ignored entries
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "not-an-event"), 0750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stray.txt"), []byte("x"), 0600))

	all, err := p.LoadAllStatus(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, SyncPhaseDone, all[1].Phase)
	assert.Equal(t, "boom", all[2].Message)

	empty, err := NewFileStatusPersistence(filepath.Join(dir, "missing")).LoadAllStatus(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSyncPhase_IsTerminal(t *testing.T) {
	t.Parallel()

	terminal := []SyncPhase{SyncPhaseSkipped, SyncPhaseDone, SyncPhaseFailed}
	for _, p := range terminal {
		assert.True(t, p.IsTerminal(), p)
	}
	running := []SyncPhase{SyncPhaseIdle, SyncPhaseCleared, SyncPhaseFetching, SyncPhaseResolving, SyncPhasePersisting}
	for _, p := range running {
		assert.False(t, p.IsTerminal(), p)
	}
}
