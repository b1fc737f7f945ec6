package store

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StartTrashRetentionCleaner purges trash entries older than retention with interval
func StartTrashRetentionCleaner(
	ctx context.Context,
	tm *TrashManager,
	interval time.Duration,
	retention time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cutoff := time.Now().Add(-retention)
				removed, err := tm.purgeExpired(cutoff)
				if err != nil {
					log.Error("failed to clean expired trash entries", zap.Error(err))
					continue
				}
				if removed > 0 {
					log.Info("cleaned expired trash entries", zap.Int("removed", removed))
				}
			}
		}
	}()
}
