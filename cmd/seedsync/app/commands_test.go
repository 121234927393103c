package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/seedsync/internal/status"
	pkgsync "github.com/stacklok/seedsync/internal/sync"
	"github.com/stacklok/seedsync/internal/sync/coordinator"
)

func newSyncFlagsCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "sync"}
	cmd.Flags().Int64Slice("event", nil, "")
	cmd.Flags().Bool("force", false, "")
	cmd.Flags().Bool("refresh-profiles", false, "")
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestBuildRequests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		want    []pkgsync.Request
		wantErr string
	}{
		{
			name: "keeps event order",
			args: []string{"--event", "3", "--event", "1", "--event", "2"},
			want: []pkgsync.Request{{EventID: 3}, {EventID: 1}, {EventID: 2}},
		},
		{
			name: "comma separated with flags",
			args: []string{"--event", "10,11", "--force", "--refresh-profiles"},
			want: []pkgsync.Request{
				{EventID: 10, Force: true, RefreshProfiles: true},
				{EventID: 11, Force: true, RefreshProfiles: true},
			},
		},
		{
			name:    "no events",
			args:    nil,
			wantErr: "at least one --event is required",
		},
		{
			name:    "non positive id",
			args:    []string{"--event", "0"},
			wantErr: "must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reqs, err := buildRequests(newSyncFlagsCmd(t, tt.args...))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, reqs)
		})
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	outcomes := []coordinator.Outcome{
		{
			Request:  pkgsync.Request{EventID: 1},
			Result:   &pkgsync.Result{EventID: 1, Phase: status.SyncPhaseDone, Created: 4},
			Duration: 1500 * time.Millisecond,
		},
		{
			Request: pkgsync.Request{EventID: 2},
			Result:  &pkgsync.Result{EventID: 2, Phase: status.SyncPhaseFailed},
			Err:     errors.New("event not found"),
		},
		{
			Request: pkgsync.Request{EventID: 3},
			Result:  &pkgsync.Result{EventID: 3, Phase: status.SyncPhaseSkipped},
		},
	}

	summary := summarize(outcomes, nil)
	assert.Equal(t, 1, summary.Failed)
	assert.False(t, summary.Cancelled)
	require.Len(t, summary.Events, 3)
	assert.Equal(t, "Done", summary.Events[0].Status)
	assert.Equal(t, int64(1500), summary.Events[0].DurationMS)
	assert.Equal(t, "failed", summary.Events[1].Status)
	assert.Equal(t, "event not found", summary.Events[1].Error)
	assert.Equal(t, "Skipped", summary.Events[2].Status)

	assert.True(t, summarize(nil, errors.New("interrupted")).Cancelled)
}

func TestWriteJSON_Summary(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	summary := summarize([]coordinator.Outcome{{
		Request: pkgsync.Request{EventID: 9},
		Result: &pkgsync.Result{
			EventID: 9,
			Phase:   status.SyncPhaseDone,
			Created: 1,
			Skipped: []pkgsync.SkippedEntrant{{Name: "Ghost", Seed: 2, Reason: "missing external user id"}},
		},
	}}, nil)
	require.NoError(t, writeJSON(cmd, summary))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	events := decoded["events"].([]any)
	require.Len(t, events, 1)
	result := events[0].(map[string]any)["result"].(map[string]any)
	assert.EqualValues(t, 1, result["created"])
	assert.Len(t, result["skipped"], 1)
}

func TestSortedStatuses(t *testing.T) {
	t.Parallel()

	out := sortedStatuses(map[int64]*status.SyncStatus{
		30: {Phase: status.SyncPhaseDone},
		10: {Phase: status.SyncPhaseFailed, Message: "boom"},
		20: {Phase: status.SyncPhaseSkipped},
	})
	require.Len(t, out, 3)
	assert.Equal(t, []int64{10, 20, 30}, []int64{out[0].EventID, out[1].EventID, out[2].EventID})

	data, err := json.Marshal(out[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"eventId":10,"phase":"Failed","message":"boom"}`, string(data))
}

func newConfirmCmd(t *testing.T, input string, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{}
	cmd.Flags().Bool("yes", false, "")
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&bytes.Buffer{})
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestConfirm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		args  []string
		want  bool
	}{
		{name: "yes flag skips prompt", args: []string{"--yes"}, want: true},
		{name: "answers yes", input: "yes\n", want: true},
		{name: "answers y without newline", input: "y", want: true},
		{name: "answers no", input: "no\n", want: false},
		{name: "anything else is no", input: "maybe\n", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ok, err := confirm(newConfirmCmd(t, tt.input, tt.args...), "Continue?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}

	t.Run("no input", func(t *testing.T) {
		t.Parallel()
		_, err := confirm(newConfirmCmd(t, ""), "Continue?")
		require.Error(t, err)
	})
}

func TestMigrateDownPrompt(t *testing.T) {
	t.Parallel()

	assert.Contains(t, migrateDownPrompt(0), "ALL steps")
	assert.Contains(t, migrateDownPrompt(2), "2 step(s)")
}

func TestVersionCmd_JSON(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	t.Cleanup(func() { versionCmd.SetOut(nil) })

	require.NoError(t, versionCmd.Flags().Set("format", "json"))
	versionCmd.Run(versionCmd, nil)

	var info map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	assert.Contains(t, info, "version")
	assert.Contains(t, info, "go_version")
}
