package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	seedapp "github.com/stacklok/seedsync/internal/app"
	"github.com/stacklok/seedsync/internal/config"
	pkgsync "github.com/stacklok/seedsync/internal/sync"
	"github.com/stacklok/seedsync/internal/sync/coordinator"
)

// shutdownTimeout bounds telemetry flushing and pool shutdown after a batch
const shutdownTimeout = 10 * time.Second

// errSyncFailed makes the command exit non-zero once the summary is printed
var errSyncFailed = errors.New("one or more events failed to sync")

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the seeding of one or more events",
	Long: `Fetch the entrants of each event from the platform, resolve duplicate seed
claims and store the seed assignments. Events run one after another in the
order given. A summary of every event is printed to stdout as JSON.

Examples:
  # Sync two events
  seedsync sync --config config.yaml --event 1001 --event 1002

  # Replace the existing seeding of an event and refresh competitor profiles
  seedsync sync --config config.yaml --event 1001 --force --refresh-profiles`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")
	syncCmd.Flags().Int64Slice("event", nil, "Platform event id to sync (repeatable, required)")
	syncCmd.Flags().Bool("force", false, "Delete existing seed assignments and sync again")
	syncCmd.Flags().Bool("refresh-profiles", false, "Overwrite stored competitor profiles with platform data")

	if err := syncCmd.MarkFlagRequired("config"); err != nil {
		panic(err)
	}
	if err := syncCmd.MarkFlagRequired("event"); err != nil {
		panic(err)
	}
}

// eventSummary is the printed outcome of one event
type eventSummary struct {
	EventID    int64                    `json:"eventId"`
	Status     string                   `json:"status"`
	Error      string                   `json:"error,omitempty"`
	DurationMS int64                    `json:"durationMs"`
	Result     *pkgsync.Result          `json:"result,omitempty"`
}

// batchSummary is the printed outcome of a sync command
type batchSummary struct {
	Events    []eventSummary `json:"events"`
	Failed    int            `json:"failed"`
	Cancelled bool           `json:"cancelled,omitempty"`
}

func runSync(cmd *cobra.Command, _ []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	reqs, err := buildRequests(cmd)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	slog.Info("Loaded configuration", "path", configPath, "events", len(reqs))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seedSync, err := seedapp.NewSeedSyncApp(ctx, seedapp.WithConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to initialize seedsync: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := seedSync.Close(shutdownCtx); err != nil {
			slog.Error("Error during shutdown", "error", err)
		}
	}()

	outcomes, runErr := seedSync.Run(ctx, reqs)
	summary := summarize(outcomes, runErr)

	if err := writeJSON(cmd, summary); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	if runErr != nil {
		return fmt.Errorf("sync interrupted: %w", runErr)
	}
	if summary.Failed > 0 {
		return errSyncFailed
	}
	return nil
}

// buildRequests turns the command flags into one request per event, keeping the given order
func buildRequests(cmd *cobra.Command) ([]pkgsync.Request, error) {
	eventIDs, err := cmd.Flags().GetInt64Slice("event")
	if err != nil {
		return nil, fmt.Errorf("failed to get event flag: %w", err)
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return nil, fmt.Errorf("failed to get force flag: %w", err)
	}
	refresh, err := cmd.Flags().GetBool("refresh-profiles")
	if err != nil {
		return nil, fmt.Errorf("failed to get refresh-profiles flag: %w", err)
	}

	if len(eventIDs) == 0 {
		return nil, fmt.Errorf("at least one --event is required")
	}

	reqs := make([]pkgsync.Request, 0, len(eventIDs))
	for _, id := range eventIDs {
		if id <= 0 {
			return nil, fmt.Errorf("invalid event id %d: must be positive", id)
		}
		reqs = append(reqs, pkgsync.Request{EventID: id, Force: force, RefreshProfiles: refresh})
	}
	return reqs, nil
}

func summarize(outcomes []coordinator.Outcome, runErr error) batchSummary {
	summary := batchSummary{
		Events:    make([]eventSummary, 0, len(outcomes)),
		Cancelled: runErr != nil,
	}

	for _, o := range outcomes {
		ev := eventSummary{
			EventID:    o.Request.EventID,
			DurationMS: o.Duration.Milliseconds(),
			Result:     o.Result,
		}
		switch {
		case o.Err != nil:
			ev.Status = "failed"
			ev.Error = o.Err.Error()
			summary.Failed++
		case o.Result != nil:
			ev.Status = string(o.Result.Phase)
		}
		summary.Events = append(summary.Events, ev)
	}
	return summary
}
