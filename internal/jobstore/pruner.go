package jobstore

import (
	"time"

	"github.com/robfig/cron/v3"

	"server/internal/infra"
)

// StartPruner schedules an hourly sweep that drops aged records from the
// file store, which otherwise grows without bound. The returned cron should
// be stopped on shutdown.
func StartPruner(store *FileStore, retention time.Duration, logger *infra.Logger) *cron.Cron {
	c := cron.New()
	_, err := c.AddFunc("@hourly", func() {
		removed, err := store.Prune(retention)
		if err != nil {
			logger.Warn().Err(err).Msg("job map prune failed")
			return
		}
		if removed > 0 {
			logger.Info().Int("removed", removed).Msg("pruned job map records")
		}
	})
	if err != nil {
		logger.Warn().Err(err).Msg("failed to schedule job map pruner")
		return c
	}
	c.Start()
	return c
}
