package coordinator

import (
	"time"

	"github.com/stacklok/seedsync/internal/config"
)

// getPauseBetweenEvents extracts the pause applied between sequential event syncs
func getPauseBetweenEvents(cfg *config.Config) time.Duration {
	if cfg == nil {
		return config.DefaultPauseBetweenEvents
	}
	return cfg.GetPauseBetweenEvents()
}
