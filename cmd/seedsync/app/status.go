package app

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/stacklok/seedsync/internal/config"
	"github.com/stacklok/seedsync/internal/db"
	"github.com/stacklok/seedsync/internal/status"
	"github.com/stacklok/seedsync/internal/sync/state"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the recorded sync status of every event",
	Long: `Print the last recorded sync status of every event as JSON. Status is read
from the database when one is configured, otherwise from sync.statusDir.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")
	if err := statusCmd.MarkFlagRequired("config"); err != nil {
		panic(err)
	}
}

// eventStatus is one printed status entry
type eventStatus struct {
	EventID int64 `json:"eventId"`
	*status.SyncStatus
}

func runStatus(cmd *cobra.Command, _ []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}

	cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx := cmd.Context()

	var pool *pgxpool.Pool
	if cfg.Database != nil {
		pool, err = db.NewPool(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	svc, err := state.NewStateService(ctx, pool, cfg.GetStatusDir())
	if err != nil {
		return fmt.Errorf("failed to create state service: %w", err)
	}

	statuses, err := svc.ListSyncStatuses(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sync status: %w", err)
	}

	return writeJSON(cmd, sortedStatuses(statuses))
}

func sortedStatuses(statuses map[int64]*status.SyncStatus) []eventStatus {
	out := make([]eventStatus, 0, len(statuses))
	for id, s := range statuses {
		out = append(out, eventStatus{EventID: id, SyncStatus: s})
	}
	slices.SortFunc(out, func(a, b eventStatus) int {
		return cmp.Compare(a.EventID, b.EventID)
	})
	return out
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
